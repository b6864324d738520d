package model

import "github.com/shopspring/decimal"

// Gateway statuses reported back to callers.
const (
	RazorpayPaymentCaptured   = "captured"
	RazorpayPaymentAuthorized = "authorized"
	RazorpayPaymentFailed     = "failed"

	PayPalCaptureCompleted = "COMPLETED"
)

// GatewayOrder is an order created on a payment gateway.
type GatewayOrder struct {
	ID       string
	Status   string
	Amount   decimal.Decimal
	Currency string
	Receipt  string
}

// GatewayPayment is the authoritative state of a gateway payment.
type GatewayPayment struct {
	ID       string
	OrderID  string
	Amount   decimal.Decimal
	Currency string
	Status   string
}

// GatewayCapture is the outcome of capturing a gateway order.
type GatewayCapture struct {
	OrderID   string
	Status    string
	CaptureID string
	Amount    decimal.Decimal
	Currency  string
}

// GatewayRefund is the outcome of a gateway refund.
type GatewayRefund struct {
	ID     string
	Status string
	Amount decimal.Decimal
}

// Conversion is an INR amount converted to USD with the processing fee applied.
type Conversion struct {
	AmountINR    decimal.Decimal `json:"amount_inr"`
	USDAmount    decimal.Decimal `json:"amount_usd"`
	Fee          decimal.Decimal `json:"fee"`
	Total        decimal.Decimal `json:"total"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// ExchangeRateRequest sets the runtime INR to USD rate.
type ExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}
