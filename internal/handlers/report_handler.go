package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/services"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportStudentProgress downloads a student's progress history as xlsx
// @Summary Export student progress
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id}/progress/export [get]
func (h *ReportHandler) ExportStudentProgress(c *gin.Context) {
	h.LogRequest(c, "Exporting student progress")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("id")

	data, filename, err := h.service.ExportStudentProgress(c.Request.Context(), studentID, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ReportHandler) handleServiceError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permErr.Resource,
				"action":   permErr.Action,
				"reason":   permErr.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Student not found",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	default:
		h.LogError(c, err, "Report export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
