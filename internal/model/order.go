package model

import (
	"time"

	"github.com/google/uuid"
)

// Order payment status values written by payment completion and refunds.
const (
	OrderPaymentStatusPending  = "pending"
	OrderPaymentStatusPaid     = "paid"
	OrderPaymentStatusRefunded = "refunded"

	OrderStatusRefunded = "refunded"
)

// OrderInfo is the slice of an externally owned order that payments read and write.
type OrderInfo struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Status        string     `json:"status" gorm:"size:32"`
	PaymentStatus string     `json:"payment_status" gorm:"size:32"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (OrderInfo) TableName() string {
	return "orders"
}
