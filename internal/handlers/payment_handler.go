package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/services"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

type PaymentHandler struct {
	BaseHandler
	service services.PaymentService
}

func NewPaymentHandler(service services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PAYMENT ENDPOINTS =====

// CreateCheckoutSession starts a checkout for a level purchase
// @Summary Create checkout session
// @Description Start a checkout session for a paid level. Free levels are granted immediately without a gateway round trip.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body validator.PaymentSessionRequest true "Checkout request"
// @Success 201 {object} services.CheckoutSessionResponse
// @Failure 404 {object} ErrorResponse "Level not found"
// @Failure 409 {object} ErrorResponse "Level already owned"
// @Router /payments/checkout [post]
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	h.LogRequest(c, "Creating checkout session")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.PaymentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	session, err := h.service.CreateCheckoutSession(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// VerifyPayment reconciles a checkout session with the gateway
// @Summary Verify payment
// @Tags payments
// @Produce json
// @Param sessionId path string true "Checkout session ID"
// @Success 200 {object} services.PurchaseResponse
// @Failure 404 {object} ErrorResponse "Purchase not found"
// @Router /payments/verify/{sessionId} [get]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	h.LogRequest(c, "Verifying payment")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	sessionID := c.Param("sessionId")

	purchase, err := h.service.VerifyPayment(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// CheckLevelAccess reports whether the caller owns a level
// @Summary Check level access
// @Tags payments
// @Produce json
// @Param id path uint true "Level ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse "Level not found"
// @Router /levels/{id}/access [get]
func (h *PaymentHandler) CheckLevelAccess(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
			Details: "ID must be a valid number",
		})
		return
	}

	unlocked, err := h.service.CheckLevelAccess(c.Request.Context(), userID, uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

// ListPurchases returns the caller's purchase history
// @Summary List purchases
// @Tags payments
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} map[string]interface{}
// @Router /payments/purchases [get]
func (h *PaymentHandler) ListPurchases(c *gin.Context) {
	h.LogRequest(c, "Listing purchases")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	purchases, total, err := h.service.ListPurchases(c.Request.Context(), userID, page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        purchases,
		"page_number": page,
		"page_size":   size,
		"total_count": total,
	})
}

// ===== ERROR HANDLING =====

func (h *PaymentHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
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
	case errors.Is(err, services.ErrLevelAlreadyOwned):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Level already owned",
		})
	case errors.Is(err, services.ErrLevelNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Level not found",
		})
	case errors.Is(err, services.ErrPurchaseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Purchase not found",
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
