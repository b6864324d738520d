package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	apperrors "github.com/uniedit/payrecon/internal/utils/errors"
	"gorm.io/gorm"
)

// orderAdapter implements outbound.OrderStorePort over the orders table.
type orderAdapter struct {
	db         *gorm.DB
	paidStatus string
}

// NewOrderAdapter creates a new order database adapter. paidStatus is the
// workflow status an order moves to once paid.
func NewOrderAdapter(db *gorm.DB, paidStatus string) outbound.OrderStorePort {
	return &orderAdapter{db: db, paidStatus: paidStatus}
}

func (a *orderAdapter) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderInfo, error) {
	var order model.OrderInfo
	err := a.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

func (a *orderAdapter) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	return a.update(ctx, id, map[string]any{
		"payment_status": model.OrderPaymentStatusPaid,
		"status":         a.paidStatus,
		"paid_at":        paidAt,
	})
}

func (a *orderAdapter) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	return a.update(ctx, id, map[string]any{
		"payment_status": model.OrderPaymentStatusRefunded,
		"status":         model.OrderStatusRefunded,
	})
}

func (a *orderAdapter) update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	result := a.db.WithContext(ctx).
		Model(&model.OrderInfo{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("order")
	}
	return nil
}

// Compile-time check
var _ outbound.OrderStorePort = (*orderAdapter)(nil)
