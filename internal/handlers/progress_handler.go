package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/services"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	service services.ProgressService
}

func NewProgressHandler(service services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PROGRESS ENDPOINTS =====

// Create records a completed activity for one of the caller's students
// @Summary Record activity progress
// @Description Record a completed activity for a student belonging to the current parent. Only the first submission per student and activity is kept.
// @Tags progress
// @Accept json
// @Produce json
// @Param request body models.CreateProgressRequest true "Progress data"
// @Success 201 {object} services.ProgressResponse
// @Failure 400 {object} ErrorResponse "Bad request or duplicate submission"
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Failure 404 {object} ErrorResponse "Activity not found"
// @Router /progress [post]
func (h *ProgressHandler) Create(c *gin.Context) {
	h.LogRequest(c, "Recording progress")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req models.CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	progress, err := h.service.Create(c.Request.Context(), &req, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, progress)
}

// GetByID returns a single progress record
// @Summary Get progress record
// @Tags progress
// @Produce json
// @Param id path uint true "Progress ID"
// @Success 200 {object} services.ProgressResponse
// @Failure 404 {object} ErrorResponse "Progress not found"
// @Router /progress/{id} [get]
func (h *ProgressHandler) GetByID(c *gin.Context) {
	h.LogRequest(c, "Getting progress record")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	progress, err := h.service.GetByID(c.Request.Context(), id, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Update amends the mutable fields of a progress record
// @Summary Update progress record
// @Description Update time spent, completion flag or notes. Score, max score and attempt number are locked after the first submission.
// @Tags progress
// @Accept json
// @Produce json
// @Param id path uint true "Progress ID"
// @Param request body models.UpdateProgressRequest true "Fields to update"
// @Success 200 {object} services.ProgressResponse
// @Failure 400 {object} ErrorResponse "Locked field in request"
// @Failure 404 {object} ErrorResponse "Progress not found"
// @Router /progress/{id} [put]
func (h *ProgressHandler) Update(c *gin.Context) {
	h.LogRequest(c, "Updating progress record")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	progress, err := h.service.Update(c.Request.Context(), id, &req, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Delete removes a progress record
// @Summary Delete progress record
// @Tags progress
// @Produce json
// @Param id path uint true "Progress ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Progress not found"
// @Router /progress/{id} [delete]
func (h *ProgressHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "Deleting progress record")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, parentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Progress record deleted"})
}

// List returns a filtered, paginated page of the caller's progress records
// @Summary List progress records
// @Description List progress records across the current parent's students with filtering, sorting and pagination
// @Tags progress
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param student_id query string false "Filter by student ID"
// @Param activity_id query int false "Filter by activity ID"
// @Param stage_id query int false "Filter by stage ID"
// @Param level_id query int false "Filter by level ID"
// @Param is_completed query bool false "Filter by completion"
// @Param sort_by query string false "Sort by: score, timespentseconds, completedat (default: completedat)"
// @Param sort_descending query bool false "Sort direction (default: false)"
// @Success 200 {object} services.ProgressListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /progress [get]
func (h *ProgressHandler) List(c *gin.Context) {
	h.LogRequest(c, "Listing progress records")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var params models.ListProgressParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	list, err := h.service.List(c.Request.Context(), &params, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListAll returns progress records across all parents (admin only)
// @Summary List all progress records
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} services.ProgressListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /admin/progress [get]
func (h *ProgressHandler) ListAll(c *gin.Context) {
	h.LogRequest(c, "Listing all progress records")

	var params models.ListProgressParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	list, err := h.service.ListAll(c.Request.Context(), &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetByStudent returns the full progress history of one student
// @Summary Get student progress history
// @Tags progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {array} services.ProgressResponse
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) GetByStudent(c *gin.Context) {
	h.LogRequest(c, "Getting progress by student")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("id")

	records, err := h.service.GetByStudent(c.Request.Context(), studentID, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetSummary returns a compact summary of one student's progress
// @Summary Get student progress summary
// @Tags progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} services.ProgressSummaryResponse
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id}/progress/summary [get]
func (h *ProgressHandler) GetSummary(c *gin.Context) {
	h.LogRequest(c, "Getting progress summary")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("id")

	summary, err := h.service.GetSummary(c.Request.Context(), studentID, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetStats returns detailed statistics for one student
// @Summary Get student progress statistics
// @Description Best and worst activities, per-stage breakdowns and recent history for one student
// @Tags progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} services.StudentStatsResponse
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id}/progress/stats [get]
func (h *ProgressHandler) GetStats(c *gin.Context) {
	h.LogRequest(c, "Getting progress stats")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("id")

	stats, err := h.service.GetStats(c.Request.Context(), studentID, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ===== HELPER METHODS =====

func (h *ProgressHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a valid number",
		})
		return 0
	}
	return uint(id)
}

// ===== ERROR HANDLING =====

func (h *ProgressHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
		})
		return
	}

	var businessErr *services.BusinessRuleError
	if errors.As(err, &businessErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Business rule violation",
			Details: map[string]interface{}{
				"rule":    businessErr.Rule,
				"message": businessErr.Message,
				"context": businessErr.Context,
			},
		})
		return
	}

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
	case errors.Is(err, services.ErrProgressAlreadyRecorded):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Progress already recorded for this activity",
		})
	case errors.Is(err, services.ErrProgressNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Progress record not found",
		})
	case errors.Is(err, services.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Activity not found",
		})
	case errors.Is(err, services.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Student not found",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
