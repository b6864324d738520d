package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

// paymentStore implements outbound.PaymentStorePort in process memory.
// A single mutex serializes every write, which makes completion and refund
// checks atomic with their writes.
type paymentStore struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entry
	seq      uint64
	orders   outbound.OrderStorePort
	now      func() time.Time
}

type entry struct {
	payment *model.Payment
	seq     uint64
}

// NewPaymentStore creates an in-memory payment store. Order existence is
// checked against orders.
func NewPaymentStore(orders outbound.OrderStorePort) outbound.PaymentStorePort {
	return &paymentStore{
		payments: make(map[uuid.UUID]*entry),
		orders:   orders,
		now:      time.Now,
	}
}

func (s *paymentStore) Create(ctx context.Context, in *model.CreatePaymentInput) (*model.Payment, error) {
	if err := model.ValidateCreateInput(in); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NotFound("order")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settledLocked(in.OrderID, uuid.Nil) {
		return nil, errors.Conflict("order already has a completed payment")
	}

	p := model.NewPendingPayment(in, s.now())
	s.seq++
	s.payments[p.ID] = &entry{payment: p, seq: s.seq}
	return clonePayment(p), nil
}

func (s *paymentStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(e.payment), nil
}

func (s *paymentStore) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := s.filterLocked(func(p *model.Payment) bool { return p.OrderID == orderID })
	if len(matches) == 0 {
		return nil, nil
	}
	return clonePayment(matches[0]), nil
}

func (s *paymentStore) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error) {
	if gatewayOrderID == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := s.filterLocked(func(p *model.Payment) bool {
		return p.RazorpayOrderID == gatewayOrderID || p.PayPalOrderID == gatewayOrderID
	})
	if len(matches) == 0 {
		return nil, nil
	}
	return clonePayment(matches[0]), nil
}

func (s *paymentStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := s.filterLocked(func(p *model.Payment) bool { return p.UserID == userID })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]*model.Payment, len(matches))
	for i, p := range matches {
		out[i] = clonePayment(p)
	}
	return out, nil
}

func (s *paymentStore) Update(ctx context.Context, id uuid.UUID, upd *model.PaymentUpdate) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.payments[id]
	if !ok {
		return nil, errors.NotFound("payment")
	}

	next := clonePayment(e.payment)
	if err := next.ApplyUpdate(upd, s.now()); err != nil {
		return nil, err
	}
	if next.SettledOrderID != nil && e.payment.SettledOrderID == nil && s.settledLocked(next.OrderID, id) {
		return nil, errors.Conflict("order already has a completed payment")
	}

	e.payment = next
	return clonePayment(next), nil
}

func (s *paymentStore) Refund(ctx context.Context, id uuid.UUID, in *model.RefundInput) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.payments[id]
	if !ok {
		return nil, errors.NotFound("payment")
	}

	next := clonePayment(e.payment)
	if _, err := next.ApplyRefund(in, s.now()); err != nil {
		return nil, err
	}

	e.payment = next
	return clonePayment(next), nil
}

// settledLocked reports whether a payment other than exclude has settled orderID.
func (s *paymentStore) settledLocked(orderID, exclude uuid.UUID) bool {
	for id, e := range s.payments {
		if id == exclude {
			continue
		}
		if e.payment.SettledOrderID != nil && *e.payment.SettledOrderID == orderID {
			return true
		}
	}
	return false
}

// filterLocked returns matching payments newest-first.
func (s *paymentStore) filterLocked(match func(*model.Payment) bool) []*model.Payment {
	var entries []*entry
	for _, e := range s.payments {
		if match(e.payment) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.payment.CreatedAt.Equal(b.payment.CreatedAt) {
			return a.payment.CreatedAt.After(b.payment.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*model.Payment, len(entries))
	for i, e := range entries {
		out[i] = e.payment
	}
	return out
}

func clonePayment(p *model.Payment) *model.Payment {
	c := *p
	if p.Metadata != nil {
		c.Metadata = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// Compile-time check
var _ outbound.PaymentStorePort = (*paymentStore)(nil)
