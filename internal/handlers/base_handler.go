package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

// BaseHandler carries the shared handler dependencies and logging helpers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a handler-level failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.LoggerFromContext(c, h.logger).Error(msg, args...)
}

// ErrorResponse is the standard error payload returned by all handlers.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse is used for operations with no meaningful response body.
type SuccessResponse struct {
	Message string `json:"message"`
}
