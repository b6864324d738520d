package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/model"
)

// OrderStorePort reads and updates the payment-related fields of externally owned orders.
type OrderStorePort interface {
	// GetOrder returns the order, or nil when it does not exist.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderInfo, error)

	// MarkPaid sets the order's payment status to paid, advances its workflow
	// status, and stamps paidAt.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error

	// MarkRefunded sets the order's payment status and status to refunded.
	MarkRefunded(ctx context.Context, id uuid.UUID) error
}
