package resilience

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/metrics"
	"go.uber.org/zap"
)

// razorpayGateway guards network calls of a Razorpay gateway.
type razorpayGateway struct {
	next outbound.RazorpayGatewayPort
	b    *breaker
}

// NewRazorpayGateway wraps next with a circuit breaker.
func NewRazorpayGateway(next outbound.RazorpayGatewayPort, cfg *BreakerConfig, m *metrics.Metrics, logger *zap.Logger) outbound.RazorpayGatewayPort {
	return &razorpayGateway{next: next, b: newBreaker("razorpay", cfg, m, logger)}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error) {
	return call(g.b, "create_order", func() (*model.GatewayOrder, error) {
		return g.next.CreateOrder(ctx, amount, currency, receipt)
	})
}

// VerifySignature is local and bypasses the breaker.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.next.VerifySignature(orderID, paymentID, signature)
}

func (g *razorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error) {
	return call(g.b, "fetch_payment", func() (*model.GatewayPayment, error) {
		return g.next.FetchPayment(ctx, paymentID)
	})
}

func (g *razorpayGateway) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal) (*model.GatewayRefund, error) {
	return call(g.b, "refund", func() (*model.GatewayRefund, error) {
		return g.next.Refund(ctx, paymentID, amount)
	})
}

// paypalGateway guards network calls of a PayPal gateway.
type paypalGateway struct {
	next outbound.PayPalGatewayPort
	b    *breaker
}

// NewPayPalGateway wraps next with a circuit breaker.
func NewPayPalGateway(next outbound.PayPalGatewayPort, cfg *BreakerConfig, m *metrics.Metrics, logger *zap.Logger) outbound.PayPalGatewayPort {
	return &paypalGateway{next: next, b: newBreaker("paypal", cfg, m, logger)}
}

func (g *paypalGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error) {
	return call(g.b, "create_order", func() (*model.GatewayOrder, error) {
		return g.next.CreateOrder(ctx, amount, currency, receipt)
	})
}

func (g *paypalGateway) Capture(ctx context.Context, orderID string) (*model.GatewayCapture, error) {
	return call(g.b, "capture", func() (*model.GatewayCapture, error) {
		return g.next.Capture(ctx, orderID)
	})
}

func (g *paypalGateway) Refund(ctx context.Context, captureID string, amount *decimal.Decimal, currency string) (*model.GatewayRefund, error) {
	return call(g.b, "refund", func() (*model.GatewayRefund, error) {
		return g.next.Refund(ctx, captureID, amount, currency)
	})
}
