package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/services"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// Create registers a new student profile under the current parent
// @Summary Create student profile
// @Tags students
// @Accept json
// @Produce json
// @Param request body validator.CreateStudentRequest true "Student data"
// @Success 201 {object} services.StudentResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 422 {object} ErrorResponse "Student limit reached"
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.Create(c.Request.Context(), &req, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// List returns all student profiles belonging to the current parent
// @Summary List own students
// @Tags students
// @Produce json
// @Success 200 {array} services.StudentResponse
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	students, err := h.service.GetByParent(c.Request.Context(), parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetByID returns a single student profile
// @Summary Get student profile
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} services.StudentResponse
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id} [get]
func (h *StudentHandler) GetByID(c *gin.Context) {
	h.LogRequest(c, "Getting student")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	student, err := h.service.GetByID(c.Request.Context(), c.Param("id"), parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// Update amends a student profile
// @Summary Update student profile
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body validator.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} services.StudentResponse
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	h.LogRequest(c, "Updating student")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.Update(c.Request.Context(), c.Param("id"), &req, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// Delete removes a student profile and detaches its progress history
// @Summary Delete student profile
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "Deleting student")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), parentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student deleted"})
}

// ===== ERROR HANDLING =====

func (h *StudentHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrStudentLimit):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Student limit reached for this account",
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
