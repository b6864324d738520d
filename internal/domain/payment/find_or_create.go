package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/domain/authz"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

// findOrCreate returns the payment to settle for orderID.
//
// The newest payment for the order is reused unless it failed or is a
// pending attempt with another method. Otherwise a new pending payment is
// created from defaults through the store, so the order must exist, belong to
// the actor, and not already be settled. Either way the actor must own the
// returned payment.
func (d *paymentDomain) findOrCreate(ctx context.Context, orderID uuid.UUID, defaults model.CreatePaymentInput, actor *model.Actor) (*model.Payment, error) {
	existing, err := d.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil && reusable(existing, defaults.Method) {
		if !authz.IsOwner(actor, existing.UserID) {
			return nil, errNotOwner()
		}
		return existing, nil
	}

	if err := d.checkOrderOwner(ctx, orderID, actor); err != nil {
		return nil, err
	}

	defaults.OrderID = orderID
	defaults.UserID = actor.UserID
	return d.payments.Create(ctx, &defaults)
}

// checkOrderOwner fails with not found when the order does not exist and
// forbidden when the actor does not own it.
func (d *paymentDomain) checkOrderOwner(ctx context.Context, orderID uuid.UUID, actor *model.Actor) error {
	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return errors.NotFound("order")
	}
	if !authz.IsOwner(actor, order.UserID) {
		return errors.Forbidden("order belongs to another user")
	}
	return nil
}

func reusable(p *model.Payment, method model.PaymentMethod) bool {
	switch p.Status {
	case model.PaymentStatusFailed:
		return false
	case model.PaymentStatusPending:
		return p.Method == method
	default:
		return true
	}
}
