package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/payrecon/internal/domain/payment"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/inbound"
	"go.uber.org/zap"
)

// paymentAdapter implements inbound.PaymentHttpPort.
type paymentAdapter struct {
	domain payment.PaymentDomain
	logger *zap.Logger
}

// NewPaymentAdapter creates a new payment HTTP adapter.
func NewPaymentAdapter(domain payment.PaymentDomain, logger *zap.Logger) inbound.PaymentHttpPort {
	return &paymentAdapter{domain: domain, logger: logger}
}

// RegisterPaymentRoutes registers payment routes.
func RegisterPaymentRoutes(r *gin.RouterGroup, adapter inbound.PaymentHttpPort) {
	payments := r.Group("/payments")
	{
		payments.POST("/razorpay/orders", adapter.CreateRazorpayOrder)
		payments.POST("/razorpay/verify", adapter.VerifyRazorpayPayment)
		payments.POST("/paypal/orders", adapter.CreatePayPalOrder)
		payments.POST("/paypal/capture", adapter.CapturePayPalPayment)
		payments.GET("/:id", adapter.GetPayment)
		payments.GET("/order/:orderId", adapter.GetOrderPayment)
		payments.GET("/user/:userId", adapter.ListUserPayments)
		payments.GET("/user/:userId/stats", adapter.GetUserStats)
	}
}

func (a *paymentAdapter) CreateRazorpayOrder(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req model.CreateRazorpayOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := a.domain.CreateRazorpayOrder(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func (a *paymentAdapter) VerifyRazorpayPayment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req model.VerifyRazorpayInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := a.domain.VerifyRazorpayPayment(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (a *paymentAdapter) CreatePayPalOrder(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req model.CreatePayPalOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := a.domain.CreatePayPalOrder(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func (a *paymentAdapter) CapturePayPalPayment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req model.CapturePayPalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := a.domain.CapturePayPalPayment(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (a *paymentAdapter) GetPayment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := a.domain.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetOrderPayment answers 404 when the order has no payment yet.
func (a *paymentAdapter) GetOrderPayment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "orderId")
	if !ok {
		return
	}

	p, err := a.domain.GetByOrderID(c.Request.Context(), orderID, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "no payment for order"}})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (a *paymentAdapter) ListUserPayments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	limit, ok := limitQuery(c)
	if !ok {
		return
	}

	payments, err := a.domain.GetByUser(c.Request.Context(), userID, actor, limit)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.NewListResponse(payments, model.NormalizeLimit(limit)))
}

func (a *paymentAdapter) GetUserStats(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	stats, err := a.domain.GetUserStats(c.Request.Context(), userID, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
