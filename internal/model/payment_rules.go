package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

// ValidateCreateInput checks the fields every new payment requires.
func ValidateCreateInput(in *CreatePaymentInput) error {
	switch {
	case in == nil:
		return errors.ValidationError("payment data is required")
	case in.OrderID == uuid.Nil:
		return errors.ValidationError("order id is required")
	case in.UserID == uuid.Nil:
		return errors.ValidationError("user id is required")
	case in.Method == "":
		return errors.ValidationError("payment method is required")
	case !in.Method.IsValid():
		return errors.Validationf("unsupported payment method %q", in.Method)
	case !in.Amount.Round(2).IsPositive():
		return errors.ValidationError("amount must be greater than zero")
	}
	return nil
}

// NewPendingPayment builds a pending payment from validated input.
func NewPendingPayment(in *CreatePaymentInput, now time.Time) *Payment {
	p := &Payment{
		ID:           uuid.New(),
		OrderID:      in.OrderID,
		UserID:       in.UserID,
		Amount:       in.Amount.Round(2),
		Currency:     in.Method.Currency(),
		Method:       in.Method,
		Status:       PaymentStatusPending,
		RefundAmount: decimal.Zero,
		Metadata:     in.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch in.Method {
	case PaymentMethodRazorpay:
		p.RazorpayOrderID = in.GatewayOrderID
	case PaymentMethodPayPal:
		p.PayPalOrderID = in.GatewayOrderID
	}
	return p
}

// ApplyUpdate applies upd to p in place. Only pending payments accept
// field changes; settled payments accept refund transitions only.
func (p *Payment) ApplyUpdate(upd *PaymentUpdate, now time.Time) error {
	if upd == nil {
		return nil
	}

	if upd.Status != nil && *upd.Status != p.Status {
		if !p.Status.CanTransitionTo(*upd.Status) {
			return errors.Conflict("payment cannot move from " + string(p.Status) + " to " + string(*upd.Status))
		}
	} else if p.Status != PaymentStatusPending {
		return errors.Conflict("payment is " + string(p.Status) + " and cannot be modified")
	}
	if err := p.checkUpdate(upd); err != nil {
		return err
	}

	if upd.RazorpayOrderID != nil {
		p.RazorpayOrderID = *upd.RazorpayOrderID
	}
	if upd.RazorpayPaymentID != nil {
		p.RazorpayPaymentID = *upd.RazorpayPaymentID
		p.GatewayPaymentID = *upd.RazorpayPaymentID
		p.TransactionID = *upd.RazorpayPaymentID
	}
	if upd.PayPalOrderID != nil {
		p.PayPalOrderID = *upd.PayPalOrderID
	}
	if upd.PayPalCaptureID != nil {
		p.PayPalCaptureID = *upd.PayPalCaptureID
		p.GatewayPaymentID = *upd.PayPalCaptureID
		p.TransactionID = *upd.PayPalCaptureID
	}
	if upd.FailureReason != nil {
		p.FailureReason = *upd.FailureReason
	}
	if upd.Metadata != nil {
		if p.Metadata == nil {
			p.Metadata = make(map[string]string, len(upd.Metadata))
		}
		for k, v := range upd.Metadata {
			p.Metadata[k] = v
		}
	}

	if upd.Status != nil && *upd.Status != p.Status {
		p.Status = *upd.Status
		if p.Status == PaymentStatusCompleted {
			if p.PaidAt == nil {
				paidAt := now
				p.PaidAt = &paidAt
			}
			orderID := p.OrderID
			p.SettledOrderID = &orderID
		}
	}

	p.UpdatedAt = now
	return nil
}

// checkUpdate rejects gateway ids that belong to another method and a
// completion that lacks the id its method refunds against. p is not modified.
func (p *Payment) checkUpdate(upd *PaymentUpdate) error {
	if upd.RazorpayPaymentID != nil && p.Method != PaymentMethodRazorpay {
		return errors.Validationf("%s payment cannot take a razorpay payment id", p.Method)
	}
	if upd.PayPalCaptureID != nil && p.Method != PaymentMethodPayPal {
		return errors.Validationf("%s payment cannot take a paypal capture id", p.Method)
	}
	if upd.Status == nil || *upd.Status != PaymentStatusCompleted || p.Status == PaymentStatusCompleted {
		return nil
	}

	switch p.Method {
	case PaymentMethodRazorpay:
		id := p.RazorpayPaymentID
		if upd.RazorpayPaymentID != nil {
			id = *upd.RazorpayPaymentID
		}
		if id == "" {
			return errors.ValidationError("completed razorpay payment requires a razorpay payment id")
		}
	case PaymentMethodPayPal:
		id := p.PayPalCaptureID
		if upd.PayPalCaptureID != nil {
			id = *upd.PayPalCaptureID
		}
		if id == "" {
			return errors.ValidationError("completed paypal payment requires a paypal capture id")
		}
	}
	return nil
}

// ApplyRefund records a refund on p in place and returns the refunded amount.
// A nil in.Amount refunds the remaining balance.
func (p *Payment) ApplyRefund(in *RefundInput, now time.Time) (decimal.Decimal, error) {
	if !p.Status.IsRefundable() {
		return decimal.Zero, errors.Validationf("payment is %s and cannot be refunded", p.Status)
	}

	amount := p.RemainingBalance()
	if in.Amount != nil {
		amount = *in.Amount
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, errors.ValidationError("refund amount must be greater than zero")
	}

	total := p.RefundAmount.Add(amount)
	if total.GreaterThan(p.Amount) {
		return decimal.Zero, errors.Validationf("refund of %s exceeds remaining balance %s", amount.StringFixed(2), p.RemainingBalance().StringFixed(2))
	}

	p.RefundAmount = total
	p.RefundReason = in.Reason
	p.RefundID = in.RefundID
	refundedAt := now
	p.RefundedAt = &refundedAt
	if total.Equal(p.Amount) {
		p.Status = PaymentStatusRefunded
	} else {
		p.Status = PaymentStatusPartiallyRefunded
	}
	p.UpdatedAt = now
	return amount, nil
}
