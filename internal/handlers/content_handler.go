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

type ContentHandler struct {
	BaseHandler
	service services.ContentService
}

func NewContentHandler(service services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== LANGUAGE ENDPOINTS =====

// ListLanguages returns all supported languages
// @Summary List languages
// @Tags content
// @Produce json
// @Success 200 {array} models.Language
// @Router /languages [get]
func (h *ContentHandler) ListLanguages(c *gin.Context) {
	languages, err := h.service.ListLanguages(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, languages)
}

// ===== LEVEL ENDPOINTS =====

// CreateLevel adds a level to a language track (admin only)
// @Summary Create level
// @Tags admin
// @Accept json
// @Produce json
// @Param request body validator.CreateLevelRequest true "Level data"
// @Success 201 {object} models.Level
// @Failure 404 {object} ErrorResponse "Language not found"
// @Router /admin/levels [post]
func (h *ContentHandler) CreateLevel(c *gin.Context) {
	h.LogRequest(c, "Creating level")

	var req services.CreateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	level, err := h.service.CreateLevel(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, level)
}

// ListLevels returns levels, optionally filtered by language
// @Summary List levels
// @Tags content
// @Produce json
// @Param language_id query int false "Filter by language ID"
// @Success 200 {array} models.Level
// @Router /levels [get]
func (h *ContentHandler) ListLevels(c *gin.Context) {
	var languageID *uint
	if languageIDStr := c.Query("language_id"); languageIDStr != "" {
		id, err := strconv.ParseUint(languageIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid language_id",
				Details: "ID must be a valid number",
			})
			return
		}
		lid := uint(id)
		languageID = &lid
	}

	levels, err := h.service.ListLevels(c.Request.Context(), languageID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, levels)
}

// GetLevel returns one level
// @Summary Get level
// @Tags content
// @Produce json
// @Param id path uint true "Level ID"
// @Success 200 {object} models.Level
// @Failure 404 {object} ErrorResponse "Level not found"
// @Router /levels/{id} [get]
func (h *ContentHandler) GetLevel(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	level, err := h.service.GetLevel(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, level)
}

// UpdateLevel amends a level (admin only)
// @Summary Update level
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Level ID"
// @Param request body validator.UpdateLevelRequest true "Fields to update"
// @Success 200 {object} models.Level
// @Failure 404 {object} ErrorResponse "Level not found"
// @Router /admin/levels/{id} [put]
func (h *ContentHandler) UpdateLevel(c *gin.Context) {
	h.LogRequest(c, "Updating level")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	level, err := h.service.UpdateLevel(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, level)
}

// DeleteLevel removes a level (admin only)
// @Summary Delete level
// @Tags admin
// @Produce json
// @Param id path uint true "Level ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Level not found"
// @Router /admin/levels/{id} [delete]
func (h *ContentHandler) DeleteLevel(c *gin.Context) {
	h.LogRequest(c, "Deleting level")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteLevel(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Level deleted"})
}

// ===== STAGE ENDPOINTS =====

// CreateStage adds a stage to a level (admin only)
// @Summary Create stage
// @Tags admin
// @Accept json
// @Produce json
// @Param request body validator.CreateStageRequest true "Stage data"
// @Success 201 {object} models.Stage
// @Failure 404 {object} ErrorResponse "Level not found"
// @Router /admin/stages [post]
func (h *ContentHandler) CreateStage(c *gin.Context) {
	h.LogRequest(c, "Creating stage")

	var req services.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	stage, err := h.service.CreateStage(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stage)
}

// ListStagesByLevel returns the stages of one level
// @Summary List stages by level
// @Tags content
// @Produce json
// @Param id path uint true "Level ID"
// @Success 200 {array} models.Stage
// @Router /levels/{id}/stages [get]
func (h *ContentHandler) ListStagesByLevel(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stages, err := h.service.ListStagesByLevel(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stages)
}

// GetStage returns one stage
// @Summary Get stage
// @Tags content
// @Produce json
// @Param id path uint true "Stage ID"
// @Success 200 {object} models.Stage
// @Failure 404 {object} ErrorResponse "Stage not found"
// @Router /stages/{id} [get]
func (h *ContentHandler) GetStage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stage, err := h.service.GetStage(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stage)
}

// UpdateStage amends a stage (admin only)
// @Summary Update stage
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Stage ID"
// @Param request body validator.UpdateStageRequest true "Fields to update"
// @Success 200 {object} models.Stage
// @Failure 404 {object} ErrorResponse "Stage not found"
// @Router /admin/stages/{id} [put]
func (h *ContentHandler) UpdateStage(c *gin.Context) {
	h.LogRequest(c, "Updating stage")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	stage, err := h.service.UpdateStage(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stage)
}

// DeleteStage removes a stage (admin only)
// @Summary Delete stage
// @Tags admin
// @Produce json
// @Param id path uint true "Stage ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Stage not found"
// @Router /admin/stages/{id} [delete]
func (h *ContentHandler) DeleteStage(c *gin.Context) {
	h.LogRequest(c, "Deleting stage")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteStage(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Stage deleted"})
}

// ===== ACTIVITY ENDPOINTS =====

// CreateActivity adds an activity to a stage (admin only)
// @Summary Create activity
// @Tags admin
// @Accept json
// @Produce json
// @Param request body validator.CreateActivityRequest true "Activity data"
// @Success 201 {object} models.Activity
// @Failure 404 {object} ErrorResponse "Stage not found"
// @Router /admin/activities [post]
func (h *ContentHandler) CreateActivity(c *gin.Context) {
	h.LogRequest(c, "Creating activity")

	var req services.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	activity, err := h.service.CreateActivity(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// ListActivitiesByStage returns the activities of one stage
// @Summary List activities by stage
// @Tags content
// @Produce json
// @Param id path uint true "Stage ID"
// @Success 200 {array} models.Activity
// @Router /stages/{id}/activities [get]
func (h *ContentHandler) ListActivitiesByStage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	activities, err := h.service.ListActivitiesByStage(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// GetActivity returns one activity
// @Summary Get activity
// @Tags content
// @Produce json
// @Param id path uint true "Activity ID"
// @Success 200 {object} models.Activity
// @Failure 404 {object} ErrorResponse "Activity not found"
// @Router /activities/{id} [get]
func (h *ContentHandler) GetActivity(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	activity, err := h.service.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// UpdateActivity amends an activity (admin only)
// @Summary Update activity
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Activity ID"
// @Param request body validator.UpdateActivityRequest true "Fields to update"
// @Success 200 {object} models.Activity
// @Failure 404 {object} ErrorResponse "Activity not found"
// @Router /admin/activities/{id} [put]
func (h *ContentHandler) UpdateActivity(c *gin.Context) {
	h.LogRequest(c, "Updating activity")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	activity, err := h.service.UpdateActivity(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// DeleteActivity removes an activity (admin only)
// @Summary Delete activity
// @Tags admin
// @Produce json
// @Param id path uint true "Activity ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Activity not found"
// @Router /admin/activities/{id} [delete]
func (h *ContentHandler) DeleteActivity(c *gin.Context) {
	h.LogRequest(c, "Deleting activity")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteActivity(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Activity deleted"})
}

// ===== EXERCISE ENDPOINTS =====

// CreateExercise adds an exercise to an activity (admin only)
// @Summary Create exercise
// @Tags admin
// @Accept json
// @Produce json
// @Param request body validator.CreateExerciseRequest true "Exercise data"
// @Success 201 {object} models.Exercise
// @Failure 404 {object} ErrorResponse "Activity not found"
// @Router /admin/exercises [post]
func (h *ContentHandler) CreateExercise(c *gin.Context) {
	h.LogRequest(c, "Creating exercise")

	var req services.CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	exercise, err := h.service.CreateExercise(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// ListExercisesByActivity returns the exercises of one activity
// @Summary List exercises by activity
// @Tags content
// @Produce json
// @Param id path uint true "Activity ID"
// @Success 200 {array} models.Exercise
// @Router /activities/{id}/exercises [get]
func (h *ContentHandler) ListExercisesByActivity(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	exercises, err := h.service.ListExercisesByActivity(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns one exercise
// @Summary Get exercise
// @Tags content
// @Produce json
// @Param id path uint true "Exercise ID"
// @Success 200 {object} models.Exercise
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ContentHandler) GetExercise(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	exercise, err := h.service.GetExercise(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise amends an exercise (admin only)
// @Summary Update exercise
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Exercise ID"
// @Param request body validator.UpdateExerciseRequest true "Fields to update"
// @Success 200 {object} models.Exercise
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Router /admin/exercises/{id} [put]
func (h *ContentHandler) UpdateExercise(c *gin.Context) {
	h.LogRequest(c, "Updating exercise")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	exercise, err := h.service.UpdateExercise(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes an exercise (admin only)
// @Summary Delete exercise
// @Tags admin
// @Produce json
// @Param id path uint true "Exercise ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Router /admin/exercises/{id} [delete]
func (h *ContentHandler) DeleteExercise(c *gin.Context) {
	h.LogRequest(c, "Deleting exercise")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteExercise(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exercise deleted"})
}

// SubmitExerciseResult records an exercise result as activity progress
// @Summary Submit exercise result
// @Description Record a student's exercise result. The result feeds the progress tracker under the first-attempt rule.
// @Tags content
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body models.SubmitExerciseResultRequest true "Exercise result"
// @Success 201 {object} services.ProgressResponse
// @Failure 400 {object} ErrorResponse "Bad request or duplicate submission"
// @Failure 403 {object} ErrorResponse "Student not accessible"
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Router /students/{id}/exercise-results [post]
func (h *ContentHandler) SubmitExerciseResult(c *gin.Context) {
	h.LogRequest(c, "Submitting exercise result")

	parentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("id")

	var req models.SubmitExerciseResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	progress, err := h.service.SubmitExerciseResult(c.Request.Context(), studentID, &req, parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, progress)
}

// ===== HELPER METHODS =====

func (h *ContentHandler) parseIDParam(c *gin.Context, param string) uint {
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

func (h *ContentHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrLanguageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Language not found",
		})
	case errors.Is(err, services.ErrLevelNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Level not found",
		})
	case errors.Is(err, services.ErrStageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Stage not found",
		})
	case errors.Is(err, services.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Activity not found",
		})
	case errors.Is(err, services.ErrExerciseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Exercise not found",
		})
	case errors.Is(err, services.ErrProgressAlreadyRecorded):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Progress already recorded for this activity",
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
