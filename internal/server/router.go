package server

import (
	"errors"
	"net/http"

	"dues-tracker-go/internal/api"
	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Dues *api.DuesService
}

// NewRouter wires the dashboard-facing API routes.
func NewRouter(dues *api.DuesService) *gin.Engine {
	h := &Handler{Dues: dues}
	r := gin.Default()
	r.Use(corsMiddleware())

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/create_customer", h.CreateCustomer)
		apiGroup.POST("/change_password", h.ChangePassword)
		apiGroup.POST("/record_offline_payment", h.RecordOfflinePayment)
		apiGroup.POST("/create_order", h.CreateOrder)
		apiGroup.POST("/confirm_payment", h.ConfirmPayment)
		apiGroup.GET("/dues/:username", h.GetDue)
	}
	r.GET("/healthz", h.Health)

	return r
}

// The dashboard front end is served from a different origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username, password, err := h.Dues.CreateAccount(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CreateCustomerResponse{Username: username, Password: password})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Dues.ChangePassword(c.Request.Context(), req.Username, req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

func (h *Handler) RecordOfflinePayment(c *gin.Context) {
	var req models.OfflinePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.Dues.RecordOfflinePayment(c.Request.Context(), req.Username, req.Customer, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderId, err := h.Dues.RequestOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CreateOrderResponse{OrderId: orderId, Status: "created", Amount: req.Amount})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.Dues.ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment confirmed, dues updated"})
}

func (h *Handler) GetDue(c *gin.Context) {
	due, err := h.Dues.GetDue(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DueResponse{
		Username: due.Username,
		Customer: due.Customer,
		Due:      due.Balance.StringFixed(2),
	})
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.Dues.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps the error taxonomy onto HTTP statuses: validation and
// ledger rejections are 400, bad credentials 401, gateway failures 500 with
// the provider's message passed through.
func respondError(c *gin.Context, err error) {
	var gatewayErr *api.GatewayError
	switch {
	case errors.Is(err, api.ErrValidation),
		errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrDueNotFound),
		errors.Is(err, store.ErrDuplicateOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or old password"})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": gatewayErr.Err.Error()})
	default:
		zap.L().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
