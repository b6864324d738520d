package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/domain/authz"
	"github.com/uniedit/payrecon/internal/domain/currency"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
	"github.com/uniedit/payrecon/internal/utils/metrics"
	"github.com/uniedit/payrecon/internal/utils/requestctx"
	"go.uber.org/zap"
)

// PaymentDomain defines the payment lifecycle service.
type PaymentDomain interface {
	// CreateRazorpayOrder creates a Razorpay order for an INR amount.
	CreateRazorpayOrder(ctx context.Context, in *model.CreateRazorpayOrderInput, actor *model.Actor) (*model.RazorpayOrderOutput, error)

	// VerifyRazorpayPayment checks a checkout signature against the gateway
	// and settles the order's payment when an order id is given.
	VerifyRazorpayPayment(ctx context.Context, in *model.VerifyRazorpayInput, actor *model.Actor) (*model.VerifyRazorpayOutput, error)

	// CreatePayPalOrder converts an INR amount to USD plus fee and creates a PayPal order for the total.
	CreatePayPalOrder(ctx context.Context, in *model.CreatePayPalOrderInput, actor *model.Actor) (*model.PayPalOrderOutput, error)

	// CapturePayPalPayment captures a PayPal order and settles the order's payment when an order id is given.
	CapturePayPalPayment(ctx context.Context, in *model.CapturePayPalInput, actor *model.Actor) (*model.CapturePayPalOutput, error)

	// GetByID returns a payment visible to its owner or an admin.
	GetByID(ctx context.Context, id uuid.UUID, actor *model.Actor) (*model.Payment, error)

	// GetByUser lists a user's payments newest-first.
	GetByUser(ctx context.Context, userID uuid.UUID, actor *model.Actor, limit int) ([]*model.Payment, error)

	// GetByOrderID returns the newest payment for an order, or nil.
	GetByOrderID(ctx context.Context, orderID uuid.UUID, actor *model.Actor) (*model.Payment, error)

	// GetUserStats aggregates a user's payments.
	GetUserStats(ctx context.Context, userID uuid.UUID, actor *model.Actor) (*model.PaymentStats, error)
}

// paymentDomain implements PaymentDomain.
type paymentDomain struct {
	payments  outbound.PaymentStorePort
	orders    outbound.OrderStorePort
	razorpay  outbound.RazorpayGatewayPort
	paypal    outbound.PayPalGatewayPort
	converter *currency.Converter
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentDomain creates a new payment domain service.
func NewPaymentDomain(
	payments outbound.PaymentStorePort,
	orders outbound.OrderStorePort,
	razorpay outbound.RazorpayGatewayPort,
	paypal outbound.PayPalGatewayPort,
	converter *currency.Converter,
	m *metrics.Metrics,
	logger *zap.Logger,
) PaymentDomain {
	return &paymentDomain{
		payments:  payments,
		orders:    orders,
		razorpay:  razorpay,
		paypal:    paypal,
		converter: converter,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// --- Razorpay ---

func (d *paymentDomain) CreateRazorpayOrder(ctx context.Context, in *model.CreateRazorpayOrderInput, actor *model.Actor) (*model.RazorpayOrderOutput, error) {
	if actor == nil {
		return nil, errActorRequired()
	}
	if in == nil {
		return nil, errInvalidAmount()
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errInvalidAmount()
	}
	cur := strings.ToUpper(in.Currency)
	if cur == "" {
		cur = model.CurrencyINR
	}
	if cur != model.CurrencyINR {
		return nil, errors.Validationf("razorpay orders must be in %s, got %s", model.CurrencyINR, in.Currency)
	}
	if in.OrderID != nil {
		if err := d.checkOrderOwner(ctx, *in.OrderID, actor); err != nil {
			return nil, err
		}
	}

	rcpt := receipt(d.now(), actor.UserID)
	order, err := d.razorpay.CreateOrder(ctx, amount, cur, rcpt)
	if err != nil {
		return nil, fmt.Errorf("createRazorpayOrder: %w", err)
	}

	out := &model.RazorpayOrderOutput{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: cur,
		Receipt:  rcpt,
	}

	if in.OrderID != nil {
		p, err := d.payments.Create(ctx, &model.CreatePaymentInput{
			OrderID:        *in.OrderID,
			UserID:         actor.UserID,
			Amount:         amount,
			Method:         model.PaymentMethodRazorpay,
			GatewayOrderID: order.ID,
			Metadata:       map[string]string{"receipt": rcpt},
		})
		if err != nil {
			return nil, err
		}
		out.PaymentID = &p.ID
	}

	d.log(ctx).Info("razorpay order created",
		zap.String("razorpay_order_id", order.ID),
		zap.String("receipt", rcpt),
		zap.String("user_id", actor.UserID.String()),
	)
	return out, nil
}

func (d *paymentDomain) VerifyRazorpayPayment(ctx context.Context, in *model.VerifyRazorpayInput, actor *model.Actor) (*model.VerifyRazorpayOutput, error) {
	if actor == nil {
		return nil, errActorRequired()
	}
	if in == nil || in.RazorpayOrderID == "" || in.RazorpayPaymentID == "" || in.RazorpaySignature == "" {
		return nil, errors.ValidationError("razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	if !d.razorpay.VerifySignature(in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature) {
		d.log(ctx).Warn("razorpay signature mismatch",
			zap.String("razorpay_order_id", in.RazorpayOrderID),
			zap.String("razorpay_payment_id", in.RazorpayPaymentID),
			zap.String("user_id", actor.UserID.String()),
		)
		return nil, errInvalidSignature()
	}

	if in.OrderID != nil {
		if out, ok, err := d.settledRazorpay(ctx, *in.OrderID, in.RazorpayPaymentID, actor); err != nil || ok {
			return out, err
		}
	}

	gp, err := d.razorpay.FetchPayment(ctx, in.RazorpayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("verifyRazorpayPayment: %w", err)
	}
	if gp.OrderID != "" && gp.OrderID != in.RazorpayOrderID {
		return nil, errors.ValidationError("payment does not belong to the razorpay order")
	}
	succeeded := gp.Status == model.RazorpayPaymentCaptured || gp.Status == model.RazorpayPaymentAuthorized

	if in.OrderID == nil {
		if !succeeded {
			return nil, errors.Validationf("razorpay payment is %s", gp.Status)
		}
		return &model.VerifyRazorpayOutput{Verified: true, Status: gp.Status, Amount: gp.Amount}, nil
	}

	orderID := *in.OrderID
	payment, err := d.findOrCreate(ctx, orderID, model.CreatePaymentInput{
		Amount:         gp.Amount,
		Method:         model.PaymentMethodRazorpay,
		GatewayOrderID: in.RazorpayOrderID,
	}, actor)
	if err != nil {
		return nil, err
	}
	if payment.Status.IsSettled() {
		// Lost a race with a concurrent verification.
		if payment.RazorpayPaymentID == in.RazorpayPaymentID {
			return razorpayVerified(payment), nil
		}
		return nil, errOrderSettled()
	}

	switch {
	case !succeeded:
		return nil, d.fail(ctx, payment, fmt.Sprintf("razorpay payment %s is %s", gp.ID, gp.Status))
	case !strings.EqualFold(gp.Currency, model.CurrencyINR):
		return nil, d.fail(ctx, payment, fmt.Sprintf("razorpay payment currency %s does not match %s", gp.Currency, model.CurrencyINR))
	case !gp.Amount.Equal(payment.Amount):
		return nil, d.fail(ctx, payment, fmt.Sprintf("razorpay amount %s does not match payment amount %s", gp.Amount.StringFixed(2), payment.Amount.StringFixed(2)))
	}

	completed := model.PaymentStatusCompleted
	payment, err = d.payments.Update(ctx, payment.ID, &model.PaymentUpdate{
		Status:            &completed,
		RazorpayOrderID:   &in.RazorpayOrderID,
		RazorpayPaymentID: &in.RazorpayPaymentID,
	})
	if err != nil {
		return nil, err
	}
	d.recordCompleted(ctx, payment)

	if err := d.markOrderPaid(ctx, payment); err != nil {
		return nil, fmt.Errorf("verifyRazorpayPayment: %w", err)
	}
	return razorpayVerified(payment), nil
}

// settledRazorpay answers a repeated verification for an already settled
// order. ok is true when the caller should return out and err as is.
func (d *paymentDomain) settledRazorpay(ctx context.Context, orderID uuid.UUID, gatewayPaymentID string, actor *model.Actor) (*model.VerifyRazorpayOutput, bool, error) {
	existing, err := d.settled(ctx, orderID, actor)
	if err != nil || existing == nil {
		return nil, err != nil, err
	}
	if existing.Method != model.PaymentMethodRazorpay || existing.RazorpayPaymentID != gatewayPaymentID {
		return nil, true, errOrderSettled()
	}
	if err := d.ensureOrderPaid(ctx, existing); err != nil {
		return nil, true, fmt.Errorf("verifyRazorpayPayment: %w", err)
	}
	return razorpayVerified(existing), true, nil
}

func razorpayVerified(p *model.Payment) *model.VerifyRazorpayOutput {
	return &model.VerifyRazorpayOutput{
		Verified:  true,
		PaymentID: &p.ID,
		OrderID:   &p.OrderID,
		Status:    string(p.Status),
		Amount:    p.Amount,
	}
}

// --- PayPal ---

func (d *paymentDomain) CreatePayPalOrder(ctx context.Context, in *model.CreatePayPalOrderInput, actor *model.Actor) (*model.PayPalOrderOutput, error) {
	if actor == nil {
		return nil, errActorRequired()
	}
	if in == nil || !in.AmountINR.Round(2).IsPositive() {
		return nil, errInvalidAmount()
	}
	if in.OrderID != nil {
		if err := d.checkOrderOwner(ctx, *in.OrderID, actor); err != nil {
			return nil, err
		}
	}

	conv, err := d.converter.ConvertToUSDWithFee(ctx, in.AmountINR)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("createPayPalOrder: %w", err)
	}

	rcpt := receipt(d.now(), actor.UserID)
	order, err := d.paypal.CreateOrder(ctx, conv.Total, model.CurrencyUSD, rcpt)
	if err != nil {
		return nil, fmt.Errorf("createPayPalOrder: %w", err)
	}

	out := &model.PayPalOrderOutput{
		OrderID:      order.ID,
		Status:       order.Status,
		AmountINR:    conv.AmountINR,
		AmountUSD:    conv.USDAmount,
		Fee:          conv.Fee,
		Total:        conv.Total,
		ExchangeRate: conv.ExchangeRate,
	}

	if in.OrderID != nil {
		p, err := d.payments.Create(ctx, &model.CreatePaymentInput{
			OrderID:        *in.OrderID,
			UserID:         actor.UserID,
			Amount:         conv.Total,
			Method:         model.PaymentMethodPayPal,
			GatewayOrderID: order.ID,
			Metadata: map[string]string{
				"receipt":       rcpt,
				"amount_inr":    conv.AmountINR.StringFixed(2),
				"amount_usd":    conv.USDAmount.StringFixed(2),
				"fee":           conv.Fee.StringFixed(2),
				"exchange_rate": conv.ExchangeRate.String(),
			},
		})
		if err != nil {
			return nil, err
		}
		out.PaymentID = &p.ID
	}

	d.log(ctx).Info("paypal order created",
		zap.String("paypal_order_id", order.ID),
		zap.String("amount_inr", conv.AmountINR.StringFixed(2)),
		zap.String("total_usd", conv.Total.StringFixed(2)),
		zap.String("user_id", actor.UserID.String()),
	)
	return out, nil
}

func (d *paymentDomain) CapturePayPalPayment(ctx context.Context, in *model.CapturePayPalInput, actor *model.Actor) (*model.CapturePayPalOutput, error) {
	if actor == nil {
		return nil, errActorRequired()
	}
	if in == nil || in.PayPalOrderID == "" {
		return nil, errors.ValidationError("paypal_order_id is required")
	}

	if in.OrderID != nil {
		existing, err := d.settled(ctx, *in.OrderID, actor)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.Method != model.PaymentMethodPayPal || existing.PayPalOrderID != in.PayPalOrderID {
				return nil, errOrderSettled()
			}
			if err := d.ensureOrderPaid(ctx, existing); err != nil {
				return nil, fmt.Errorf("capturePayPalPayment: %w", err)
			}
			return paypalCaptured(existing), nil
		}
	}

	capture, err := d.paypal.Capture(ctx, in.PayPalOrderID)
	if err != nil {
		return nil, fmt.Errorf("capturePayPalPayment: %w", err)
	}

	if !strings.EqualFold(capture.Status, model.PayPalCaptureCompleted) {
		reason := fmt.Sprintf("paypal capture for %s is %s", in.PayPalOrderID, capture.Status)
		if in.OrderID != nil {
			d.failPending(ctx, *in.OrderID, in.PayPalOrderID, actor, reason)
		}
		return nil, errors.Validationf("payment not completed: status %s", capture.Status)
	}
	if capture.CaptureID == "" {
		return nil, fmt.Errorf("capturePayPalPayment: capture response for order %s has no capture id", in.PayPalOrderID)
	}

	if in.OrderID == nil {
		return &model.CapturePayPalOutput{
			Captured:      true,
			PayPalOrderID: in.PayPalOrderID,
			Status:        string(model.PaymentStatusCompleted),
			CaptureID:     capture.CaptureID,
		}, nil
	}

	payment, err := d.findOrCreate(ctx, *in.OrderID, model.CreatePaymentInput{
		Amount:         capture.Amount,
		Method:         model.PaymentMethodPayPal,
		GatewayOrderID: in.PayPalOrderID,
	}, actor)
	if err != nil {
		return nil, err
	}
	if payment.Status.IsSettled() {
		if payment.PayPalOrderID == in.PayPalOrderID {
			return paypalCaptured(payment), nil
		}
		return nil, errOrderSettled()
	}

	switch {
	case capture.Currency != "" && !strings.EqualFold(capture.Currency, model.CurrencyUSD):
		return nil, d.fail(ctx, payment, fmt.Sprintf("paypal capture currency %s does not match %s", capture.Currency, model.CurrencyUSD))
	case !capture.Amount.Equal(payment.Amount):
		return nil, d.fail(ctx, payment, fmt.Sprintf("paypal captured %s but payment amount is %s", capture.Amount.StringFixed(2), payment.Amount.StringFixed(2)))
	}

	completed := model.PaymentStatusCompleted
	payment, err = d.payments.Update(ctx, payment.ID, &model.PaymentUpdate{
		Status:          &completed,
		PayPalOrderID:   &in.PayPalOrderID,
		PayPalCaptureID: &capture.CaptureID,
	})
	if err != nil {
		return nil, err
	}
	d.recordCompleted(ctx, payment)

	if err := d.markOrderPaid(ctx, payment); err != nil {
		return nil, fmt.Errorf("capturePayPalPayment: %w", err)
	}
	return paypalCaptured(payment), nil
}

func paypalCaptured(p *model.Payment) *model.CapturePayPalOutput {
	return &model.CapturePayPalOutput{
		Captured:      true,
		PayPalOrderID: p.PayPalOrderID,
		OrderID:       &p.OrderID,
		PaymentID:     &p.ID,
		Status:        string(p.Status),
		CaptureID:     p.PayPalCaptureID,
	}
}

// --- Queries ---

func (d *paymentDomain) GetByID(ctx context.Context, id uuid.UUID, actor *model.Actor) (*model.Payment, error) {
	p, err := d.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NotFound("payment")
	}
	if !authz.IsOwnerOrAdmin(actor, p.UserID) {
		return nil, errNotOwner()
	}
	return p, nil
}

func (d *paymentDomain) GetByUser(ctx context.Context, userID uuid.UUID, actor *model.Actor, limit int) ([]*model.Payment, error) {
	if !authz.IsOwnerOrAdmin(actor, userID) {
		return nil, errors.Forbidden("cannot list another user's payments")
	}
	return d.payments.FindByUserID(ctx, userID, model.NormalizeLimit(limit))
}

func (d *paymentDomain) GetByOrderID(ctx context.Context, orderID uuid.UUID, actor *model.Actor) (*model.Payment, error) {
	p, err := d.payments.FindByOrderID(ctx, orderID)
	if err != nil || p == nil {
		return nil, err
	}
	if !authz.IsOwnerOrAdmin(actor, p.UserID) {
		return nil, errNotOwner()
	}
	return p, nil
}

func (d *paymentDomain) GetUserStats(ctx context.Context, userID uuid.UUID, actor *model.Actor) (*model.PaymentStats, error) {
	if !authz.IsOwnerOrAdmin(actor, userID) {
		return nil, errors.Forbidden("cannot read another user's payment stats")
	}

	payments, err := d.payments.FindByUserID(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	stats := &model.PaymentStats{TotalTransactions: len(payments)}
	for _, p := range payments {
		switch p.Status {
		case model.PaymentStatusCompleted:
			stats.TotalPaid = stats.TotalPaid.Add(p.Amount)
			stats.SuccessfulTransactions++
		case model.PaymentStatusPartiallyRefunded, model.PaymentStatusRefunded:
			stats.TotalRefunded = stats.TotalRefunded.Add(p.RefundAmount)
			stats.SuccessfulTransactions++
		case model.PaymentStatusFailed:
			stats.FailedTransactions++
		}
	}
	return stats, nil
}

// --- Helpers ---

// settled returns the order's settled payment, or nil. The actor must own it.
func (d *paymentDomain) settled(ctx context.Context, orderID uuid.UUID, actor *model.Actor) (*model.Payment, error) {
	p, err := d.payments.FindByOrderID(ctx, orderID)
	if err != nil || p == nil || !p.Status.IsSettled() {
		return nil, err
	}
	if !authz.IsOwner(actor, p.UserID) {
		return nil, errNotOwner()
	}
	return p, nil
}

// fail moves a pending payment to failed and returns the validation error
// reported to the caller.
func (d *paymentDomain) fail(ctx context.Context, p *model.Payment, reason string) error {
	d.markFailed(ctx, p, reason)
	return errors.ValidationError(reason)
}

// markFailed moves a pending payment to failed. Store errors are logged.
func (d *paymentDomain) markFailed(ctx context.Context, p *model.Payment, reason string) {
	failed := model.PaymentStatusFailed
	if _, err := d.payments.Update(ctx, p.ID, &model.PaymentUpdate{Status: &failed, FailureReason: &reason}); err != nil {
		d.log(ctx).Error("failed to mark payment failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("reason", reason),
			zap.Error(err),
		)
	} else if d.metrics != nil {
		d.metrics.RecordPaymentFailed(string(p.Method))
	}

	d.log(ctx).Warn("payment failed",
		zap.String("payment_id", p.ID.String()),
		zap.String("order_id", p.OrderID.String()),
		zap.String("method", string(p.Method)),
		zap.String("reason", reason),
	)
}

// failPending marks the order's pending attempt for gatewayOrderID failed, if
// the actor owns one.
func (d *paymentDomain) failPending(ctx context.Context, orderID uuid.UUID, gatewayOrderID string, actor *model.Actor, reason string) {
	p, err := d.payments.FindByOrderID(ctx, orderID)
	if err != nil || p == nil {
		return
	}
	if p.Status != model.PaymentStatusPending || p.GatewayOrderID() != gatewayOrderID || !authz.IsOwner(actor, p.UserID) {
		return
	}
	d.markFailed(ctx, p, reason)
}

func (d *paymentDomain) markOrderPaid(ctx context.Context, p *model.Payment) error {
	paidAt := d.now()
	if p.PaidAt != nil {
		paidAt = *p.PaidAt
	}
	if err := d.orders.MarkPaid(ctx, p.OrderID, paidAt); err != nil {
		d.log(ctx).Error("failed to mark order paid",
			zap.String("order_id", p.OrderID.String()),
			zap.String("payment_id", p.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("mark order %s paid: %w", p.OrderID, err)
	}
	return nil
}

// ensureOrderPaid repeats order propagation for a settled payment whose order
// was not updated.
func (d *paymentDomain) ensureOrderPaid(ctx context.Context, p *model.Payment) error {
	if p.Status != model.PaymentStatusCompleted {
		return nil
	}
	order, err := d.orders.GetOrder(ctx, p.OrderID)
	if err != nil {
		return err
	}
	if order == nil || order.PaymentStatus == model.OrderPaymentStatusPaid {
		return nil
	}
	return d.markOrderPaid(ctx, p)
}

func (d *paymentDomain) recordCompleted(ctx context.Context, p *model.Payment) {
	if d.metrics != nil {
		d.metrics.RecordPaymentCompleted(string(p.Method))
	}
	d.log(ctx).Info("payment completed",
		zap.String("payment_id", p.ID.String()),
		zap.String("order_id", p.OrderID.String()),
		zap.String("method", string(p.Method)),
		zap.String("transaction_id", p.TransactionID),
	)
}

// log tags the logger with the request id and actor carried by ctx.
func (d *paymentDomain) log(ctx context.Context) *zap.Logger {
	return d.logger.With(requestctx.LogFields(ctx)...)
}
