package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/domain/authz"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
	"github.com/uniedit/payrecon/internal/utils/metrics"
	"github.com/uniedit/payrecon/internal/utils/requestctx"
	"go.uber.org/zap"
)

// RefundDomain issues admin refunds through the gateway that settled the payment.
type RefundDomain interface {
	// Refund refunds req.Amount, or the remaining balance when it is nil.
	Refund(ctx context.Context, paymentID uuid.UUID, req *model.RefundRequest, actor *model.Actor) (*model.Payment, error)
}

type refundDomain struct {
	payments outbound.PaymentStorePort
	orders   outbound.OrderStorePort
	razorpay outbound.RazorpayGatewayPort
	paypal   outbound.PayPalGatewayPort
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewRefundDomain creates a new refund domain service.
func NewRefundDomain(
	payments outbound.PaymentStorePort,
	orders outbound.OrderStorePort,
	razorpay outbound.RazorpayGatewayPort,
	paypal outbound.PayPalGatewayPort,
	m *metrics.Metrics,
	logger *zap.Logger,
) RefundDomain {
	return &refundDomain{
		payments: payments,
		orders:   orders,
		razorpay: razorpay,
		paypal:   paypal,
		metrics:  m,
		logger:   logger,
	}
}

func (d *refundDomain) Refund(ctx context.Context, paymentID uuid.UUID, req *model.RefundRequest, actor *model.Actor) (*model.Payment, error) {
	if !authz.IsAdmin(actor) {
		return nil, errAdminOnly()
	}
	if req == nil {
		req = &model.RefundRequest{}
	}

	p, err := d.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NotFound("payment")
	}
	if !p.Status.IsRefundable() {
		return nil, errNotRefundable(p.Status)
	}

	remaining := p.RemainingBalance()
	amount := remaining
	if req.Amount != nil {
		amount = req.Amount.Round(2)
	}
	if !amount.IsPositive() {
		return nil, errInvalidAmount()
	}
	if amount.GreaterThan(remaining) {
		return nil, errors.Validationf("refund amount %s exceeds remaining balance %s",
			amount.StringFixed(2), remaining.StringFixed(2)).
			WithDetails(map[string]any{"remaining": remaining.StringFixed(2)})
	}

	refundID, err := d.dispatch(ctx, p, amount)
	if err != nil {
		return nil, err
	}

	updated, err := d.payments.Refund(ctx, p.ID, &model.RefundInput{
		Amount:   &amount,
		Reason:   req.Reason,
		RefundID: refundID,
	})
	if err != nil {
		// The gateway already moved the money; the record must be reconciled by hand.
		d.log(ctx).Error("gateway refund succeeded but store refund failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("refund_id", refundID),
			zap.String("amount", amount.StringFixed(2)),
			zap.Error(err),
		)
		return nil, err
	}

	full := updated.Status == model.PaymentStatusRefunded
	if d.metrics != nil {
		d.metrics.RecordRefund(string(updated.Method), full)
	}
	d.log(ctx).Info("payment refunded",
		zap.String("payment_id", updated.ID.String()),
		zap.String("order_id", updated.OrderID.String()),
		zap.String("refund_id", refundID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", string(updated.Status)),
		zap.String("admin_id", actor.UserID.String()),
	)

	if full {
		if err := d.orders.MarkRefunded(ctx, updated.OrderID); err != nil {
			d.log(ctx).Error("failed to mark order refunded",
				zap.String("order_id", updated.OrderID.String()),
				zap.String("payment_id", updated.ID.String()),
				zap.Error(err),
			)
		}
	}
	return updated, nil
}

// dispatch refunds amount through p's gateway and returns the refund id.
func (d *refundDomain) dispatch(ctx context.Context, p *model.Payment, amount decimal.Decimal) (string, error) {
	switch p.Method {
	case model.PaymentMethodRazorpay:
		if p.GatewayPaymentID == "" {
			return "", errors.Validationf("payment %s has no razorpay payment id", p.ID)
		}
		r, err := d.razorpay.Refund(ctx, p.GatewayPaymentID, &amount)
		if err != nil {
			return "", fmt.Errorf("refund: %w", err)
		}
		return r.ID, nil
	case model.PaymentMethodPayPal:
		if p.PayPalCaptureID == "" {
			return "", errors.Validationf("payment %s has no paypal capture id", p.ID)
		}
		r, err := d.paypal.Refund(ctx, p.PayPalCaptureID, &amount, p.Currency)
		if err != nil {
			return "", fmt.Errorf("refund: %w", err)
		}
		return r.ID, nil
	case model.PaymentMethodCOD:
		return "manual_" + uuid.NewString(), nil
	default:
		return "", errors.Validationf("unsupported payment method %q", p.Method)
	}
}

// log tags the logger with the request id and actor carried by ctx.
func (d *refundDomain) log(ctx context.Context) *zap.Logger {
	return d.logger.With(requestctx.LogFields(ctx)...)
}
