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
	"gorm.io/gorm/clause"
)

// paymentAdapter implements outbound.PaymentStorePort.
//
// At most one settled payment per order is enforced by the unique index on
// settled_order_id. Updates and refunds lock the row for the duration of the
// read-modify-write.
type paymentAdapter struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPaymentAdapter creates a new payment database adapter.
func NewPaymentAdapter(db *gorm.DB) outbound.PaymentStorePort {
	return &paymentAdapter{db: db, now: time.Now}
}

func (a *paymentAdapter) Create(ctx context.Context, in *model.CreatePaymentInput) (*model.Payment, error) {
	if err := model.ValidateCreateInput(in); err != nil {
		return nil, err
	}

	var exists int64
	if err := a.db.WithContext(ctx).Model(&model.OrderInfo{}).Where("id = ?", in.OrderID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("check order: %w", err)
	}
	if exists == 0 {
		return nil, apperrors.NotFound("order")
	}

	var settled int64
	if err := a.db.WithContext(ctx).Model(&model.Payment{}).Where("settled_order_id = ?", in.OrderID).Count(&settled).Error; err != nil {
		return nil, fmt.Errorf("check settled payment: %w", err)
	}
	if settled > 0 {
		return nil, apperrors.Conflict("order already has a completed payment")
	}

	payment := model.NewPendingPayment(in, a.now())
	if err := a.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

func (a *paymentAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := a.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by id: %w", err)
	}
	return &payment, nil
}

func (a *paymentAdapter) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := a.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by order: %w", err)
	}
	return &payment, nil
}

func (a *paymentAdapter) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error) {
	if gatewayOrderID == "" {
		return nil, nil
	}

	var payment model.Payment
	err := a.db.WithContext(ctx).
		Where("razorpay_order_id = ? OR paypal_order_id = ?", gatewayOrderID, gatewayOrderID).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by gateway order: %w", err)
	}
	return &payment, nil
}

func (a *paymentAdapter) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Payment, error) {
	var payments []*model.Payment
	query := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("find payments by user: %w", err)
	}
	return payments, nil
}

func (a *paymentAdapter) Update(ctx context.Context, id uuid.UUID, upd *model.PaymentUpdate) (*model.Payment, error) {
	var out *model.Payment
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := a.lock(tx, id)
		if err != nil {
			return err
		}
		if err := payment.ApplyUpdate(upd, a.now()); err != nil {
			return err
		}
		if err := tx.Save(payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("order already has a completed payment")
			}
			return fmt.Errorf("update payment: %w", err)
		}
		out = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *paymentAdapter) Refund(ctx context.Context, id uuid.UUID, in *model.RefundInput) (*model.Payment, error) {
	var out *model.Payment
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := a.lock(tx, id)
		if err != nil {
			return err
		}
		if _, err := payment.ApplyRefund(in, a.now()); err != nil {
			return err
		}
		if err := tx.Save(payment).Error; err != nil {
			return fmt.Errorf("refund payment: %w", err)
		}
		out = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lock selects the payment row FOR UPDATE inside tx.
func (a *paymentAdapter) lock(tx *gorm.DB, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("payment")
	}
	if err != nil {
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	return &payment, nil
}

// Compile-time check
var _ outbound.PaymentStorePort = (*paymentAdapter)(nil)
