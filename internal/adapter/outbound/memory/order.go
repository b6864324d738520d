package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

// OrderStore is an in-memory outbound.OrderStorePort. Put seeds orders.
type OrderStore struct {
	mu         sync.RWMutex
	orders     map[uuid.UUID]*model.OrderInfo
	paidStatus string
}

// NewOrderStore creates an in-memory order store. paidStatus is the workflow
// status an order moves to once paid.
func NewOrderStore(paidStatus string) *OrderStore {
	return &OrderStore{
		orders:     make(map[uuid.UUID]*model.OrderInfo),
		paidStatus: paidStatus,
	}
}

// Put inserts or replaces an order.
func (s *OrderStore) Put(order *model.OrderInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *order
	s.orders[order.ID] = &c
}

func (s *OrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (s *OrderStore) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return errors.NotFound("order")
	}
	o.PaymentStatus = model.OrderPaymentStatusPaid
	o.Status = s.paidStatus
	o.PaidAt = &paidAt
	o.UpdatedAt = time.Now()
	return nil
}

func (s *OrderStore) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return errors.NotFound("order")
	}
	o.PaymentStatus = model.OrderPaymentStatusRefunded
	o.Status = model.OrderStatusRefunded
	o.UpdatedAt = time.Now()
	return nil
}

// Compile-time check
var _ outbound.OrderStorePort = (*OrderStore)(nil)
