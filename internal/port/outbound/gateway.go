package outbound

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/model"
)

// RazorpayGatewayPort defines the Razorpay operations payments rely on.
type RazorpayGatewayPort interface {
	// CreateOrder creates an order for amount in major units.
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error)

	// VerifySignature checks the checkout signature over orderID|paymentID.
	// It never calls the network and returns false on any mismatch.
	VerifySignature(orderID, paymentID, signature string) bool

	// FetchPayment returns the authoritative payment state.
	FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error)

	// Refund refunds amount, or the full payment when amount is nil.
	Refund(ctx context.Context, paymentID string, amount *decimal.Decimal) (*model.GatewayRefund, error)
}

// PayPalGatewayPort defines the PayPal operations payments rely on.
type PayPalGatewayPort interface {
	// CreateOrder creates a capture-intent order.
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error)

	// Capture captures an approved order. Callers must treat any status other
	// than COMPLETED as a failure.
	Capture(ctx context.Context, orderID string) (*model.GatewayCapture, error)

	// Refund refunds amount of a capture, or the full capture when amount is nil.
	Refund(ctx context.Context, captureID string, amount *decimal.Decimal, currency string) (*model.GatewayRefund, error)
}

// ExchangeRatePort provides the INR to USD rate.
type ExchangeRatePort interface {
	// INRToUSD returns the current rate.
	INRToUSD(ctx context.Context) (decimal.Decimal, error)
}

// ExchangeRateAdminPort allows the runtime rate to be overridden.
type ExchangeRateAdminPort interface {
	ExchangeRatePort

	// SetINRToUSD stores an override rate.
	SetINRToUSD(ctx context.Context, rate decimal.Decimal) error
}
