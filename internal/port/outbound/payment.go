package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/model"
)

// PaymentStorePort defines payment persistence operations.
// Lookups return (nil, nil) when no record matches.
type PaymentStorePort interface {
	// Create persists a new pending payment. It fails with a validation error on
	// missing fields or a non-positive amount, not found when the order does not
	// exist, and conflict when the order already has a completed payment.
	Create(ctx context.Context, in *model.CreatePaymentInput) (*model.Payment, error)

	// FindByID finds a payment by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// FindByOrderID finds the most recently created payment for an order.
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)

	// FindByGatewayOrderID finds a payment by either gateway's order id.
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error)

	// FindByUserID lists a user's payments newest-first. A limit <= 0 returns all of them.
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Payment, error)

	// Update applies a status transition and field changes atomically.
	// Illegal transitions and a second completed payment for an order are conflicts.
	Update(ctx context.Context, id uuid.UUID, upd *model.PaymentUpdate) (*model.Payment, error)

	// Refund records a refund as an atomic read-modify-write over the cumulative refund amount.
	Refund(ctx context.Context, id uuid.UUID, in *model.RefundInput) (*model.Payment, error)
}
