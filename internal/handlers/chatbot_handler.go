package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/services"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

type ChatbotHandler struct {
	BaseHandler
	service services.ChatbotService
}

func NewChatbotHandler(service services.ChatbotService, logger utils.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Ask forwards a parent's question to the assistant
// @Summary Ask the assistant
// @Description Forward a question to the assistant API. No conversation history is stored.
// @Tags chatbot
// @Accept json
// @Produce json
// @Param request body validator.ChatbotRequest true "Question"
// @Success 200 {object} services.ChatbotResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 502 {object} ErrorResponse "Assistant unavailable"
// @Router /chatbot/ask [post]
func (h *ChatbotHandler) Ask(c *gin.Context) {
	h.LogRequest(c, "Asking chatbot")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	reply, err := h.service.Ask(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *ChatbotHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Chatbot request failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Assistant unavailable",
		})
	}
}
