package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"
)

// IsTerminal returns true if the status is a terminal state.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// IsSettled returns true once money has moved, including refunded states.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPartiallyRefunded || s == PaymentStatusRefunded
}

// IsRefundable returns true if a refund may be recorded against the payment.
func (s PaymentStatus) IsRefundable() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPartiallyRefunded
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusCompleted || target == PaymentStatusFailed
	case PaymentStatusCompleted:
		return target == PaymentStatusPartiallyRefunded || target == PaymentStatusRefunded
	case PaymentStatusPartiallyRefunded:
		return target == PaymentStatusPartiallyRefunded || target == PaymentStatusRefunded
	default:
		return false
	}
}

// PaymentMethod represents how a payment is settled.
type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodCOD      PaymentMethod = "cod"
)

// Currencies fixed per payment method.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// IsValid reports whether the method is known.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodRazorpay, PaymentMethodPayPal, PaymentMethodCOD:
		return true
	}
	return false
}

// Currency returns the currency a method settles in.
func (m PaymentMethod) Currency() string {
	if m == PaymentMethodPayPal {
		return CurrencyUSD
	}
	return CurrencyINR
}

// Payment represents a payment record against an order.
type Payment struct {
	ID       uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency string          `json:"currency" gorm:"size:3;not null"`
	Method   PaymentMethod   `json:"method" gorm:"size:16;not null"`
	Status   PaymentStatus   `json:"status" gorm:"size:32;not null;default:pending;index"`

	RazorpayOrderID   string `json:"razorpay_order_id,omitempty" gorm:"index"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	PayPalOrderID     string `json:"paypal_order_id,omitempty" gorm:"column:paypal_order_id;index"`
	PayPalCaptureID   string `json:"paypal_capture_id,omitempty" gorm:"column:paypal_capture_id"`
	GatewayPaymentID  string `json:"gateway_payment_id,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`

	RefundAmount decimal.Decimal `json:"refund_amount" gorm:"type:numeric(14,2);not null;default:0"`
	RefundReason string          `json:"refund_reason,omitempty"`
	RefundID     string          `json:"refund_id,omitempty"`
	RefundedAt   *time.Time      `json:"refunded_at,omitempty"`

	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty" gorm:"serializer:json"`

	// SettledOrderID is set to OrderID when the payment completes; its unique
	// index allows at most one settled payment per order.
	SettledOrderID *uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Payment) TableName() string {
	return "payments"
}

// RemainingBalance returns the amount still refundable.
func (p *Payment) RemainingBalance() decimal.Decimal {
	return p.Amount.Sub(p.RefundAmount)
}

// GatewayOrderID returns the gateway order id for the payment's method.
func (p *Payment) GatewayOrderID() string {
	switch p.Method {
	case PaymentMethodRazorpay:
		return p.RazorpayOrderID
	case PaymentMethodPayPal:
		return p.PayPalOrderID
	}
	return ""
}

// --- Store inputs ---

// CreatePaymentInput is the data required to persist a new pending payment.
type CreatePaymentInput struct {
	OrderID        uuid.UUID
	UserID         uuid.UUID
	Amount         decimal.Decimal
	Method         PaymentMethod
	GatewayOrderID string
	Metadata       map[string]string
}

// PaymentUpdate lists the fields a store update may change. Nil fields are left untouched.
type PaymentUpdate struct {
	Status            *PaymentStatus
	RazorpayOrderID   *string
	RazorpayPaymentID *string
	PayPalOrderID     *string
	PayPalCaptureID   *string
	FailureReason     *string
	Metadata          map[string]string
}

// RefundInput is a refund to record against a payment. A nil Amount refunds the remaining balance.
type RefundInput struct {
	Amount   *decimal.Decimal
	Reason   string
	RefundID string
}

// --- Request/Response DTOs ---

// CreateRazorpayOrderInput represents a request to create a Razorpay order.
type CreateRazorpayOrderInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	OrderID  *uuid.UUID      `json:"order_id,omitempty"`
}

// RazorpayOrderOutput is returned after a Razorpay order is created.
type RazorpayOrderOutput struct {
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Receipt   string          `json:"receipt"`
	PaymentID *uuid.UUID      `json:"payment_id,omitempty"`
}

// VerifyRazorpayInput carries the tokens returned by Razorpay checkout.
type VerifyRazorpayInput struct {
	RazorpayOrderID   string     `json:"razorpay_order_id"`
	RazorpayPaymentID string     `json:"razorpay_payment_id"`
	RazorpaySignature string     `json:"razorpay_signature"`
	OrderID           *uuid.UUID `json:"order_id,omitempty"`
}

// VerifyRazorpayOutput is returned after a successful verification.
type VerifyRazorpayOutput struct {
	Verified  bool            `json:"verified"`
	PaymentID *uuid.UUID      `json:"payment_id,omitempty"`
	OrderID   *uuid.UUID      `json:"order_id,omitempty"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
}

// CreatePayPalOrderInput represents a request to create a PayPal order from an INR amount.
type CreatePayPalOrderInput struct {
	AmountINR decimal.Decimal `json:"amount_inr"`
	OrderID   *uuid.UUID      `json:"order_id,omitempty"`
}

// PayPalOrderOutput surfaces every conversion figure alongside the PayPal order.
type PayPalOrderOutput struct {
	OrderID      string          `json:"order_id"`
	Status       string          `json:"status"`
	AmountINR    decimal.Decimal `json:"amount_inr"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	Fee          decimal.Decimal `json:"fee"`
	Total        decimal.Decimal `json:"total"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	PaymentID    *uuid.UUID      `json:"payment_id,omitempty"`
}

// CapturePayPalInput represents a request to capture a PayPal order.
type CapturePayPalInput struct {
	PayPalOrderID string     `json:"paypal_order_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
}

// CapturePayPalOutput is returned after a successful capture.
type CapturePayPalOutput struct {
	Captured      bool       `json:"captured"`
	PayPalOrderID string     `json:"paypal_order_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	PaymentID     *uuid.UUID `json:"payment_id,omitempty"`
	Status        string     `json:"status"`
	CaptureID     string     `json:"capture_id"`
}

// RefundRequest represents an admin refund request. A nil Amount refunds the remaining balance.
type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason"`
}

// PaymentStats aggregates a user's payments.
type PaymentStats struct {
	TotalPaid              decimal.Decimal `json:"total_paid"`
	TotalRefunded          decimal.Decimal `json:"total_refunded"`
	TotalTransactions      int             `json:"total_transactions"`
	SuccessfulTransactions int             `json:"successful_transactions"`
	FailedTransactions     int             `json:"failed_transactions"`
}
