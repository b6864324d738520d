package inbound

import "github.com/gin-gonic/gin"

// PaymentHttpPort defines HTTP handler interface for payment operations.
type PaymentHttpPort interface {
	// CreateRazorpayOrder handles POST /payments/razorpay/orders
	CreateRazorpayOrder(c *gin.Context)

	// VerifyRazorpayPayment handles POST /payments/razorpay/verify
	VerifyRazorpayPayment(c *gin.Context)

	// CreatePayPalOrder handles POST /payments/paypal/orders
	CreatePayPalOrder(c *gin.Context)

	// CapturePayPalPayment handles POST /payments/paypal/capture
	CapturePayPalPayment(c *gin.Context)

	// GetPayment handles GET /payments/:id
	GetPayment(c *gin.Context)

	// GetOrderPayment handles GET /payments/order/:orderId
	GetOrderPayment(c *gin.Context)

	// ListUserPayments handles GET /payments/user/:userId
	ListUserPayments(c *gin.Context)

	// GetUserStats handles GET /payments/user/:userId/stats
	GetUserStats(c *gin.Context)
}

// RefundHttpPort defines HTTP handler interface for refund operations.
type RefundHttpPort interface {
	// CreateRefund handles POST /payments/:id/refund
	// Refunds a payment (admin only).
	CreateRefund(c *gin.Context)
}

// ExchangeRateHttpPort defines HTTP handler interface for the conversion rate.
type ExchangeRateHttpPort interface {
	// GetExchangeRate handles GET /admin/exchange-rate
	GetExchangeRate(c *gin.Context)

	// SetExchangeRate handles PUT /admin/exchange-rate
	SetExchangeRate(c *gin.Context)
}
