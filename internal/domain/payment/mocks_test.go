package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/payrecon/internal/adapter/outbound/memory"
	"github.com/uniedit/payrecon/internal/domain/currency"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/metrics"
	"go.uber.org/zap"
)

// --- Mock Implementations ---

type MockRazorpayGateway struct {
	mock.Mock
}

func (m *MockRazorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error) {
	args := m.Called(ctx, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayOrder), args.Error(1)
}

func (m *MockRazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

func (m *MockRazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayPayment), args.Error(1)
}

func (m *MockRazorpayGateway) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal) (*model.GatewayRefund, error) {
	args := m.Called(ctx, paymentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayRefund), args.Error(1)
}

type MockPayPalGateway struct {
	mock.Mock
}

func (m *MockPayPalGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error) {
	args := m.Called(ctx, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayOrder), args.Error(1)
}

func (m *MockPayPalGateway) Capture(ctx context.Context, orderID string) (*model.GatewayCapture, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayCapture), args.Error(1)
}

func (m *MockPayPalGateway) Refund(ctx context.Context, captureID string, amount *decimal.Decimal, currency string) (*model.GatewayRefund, error) {
	args := m.Called(ctx, captureID, amount, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayRefund), args.Error(1)
}

// --- Fixture ---

type fixture struct {
	orders   *memory.OrderStore
	payments outbound.PaymentStorePort
	razorpay *MockRazorpayGateway
	paypal   *MockPayPalGateway
	metrics  *metrics.Metrics
	domain   PaymentDomain
	refunds  RefundDomain
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orders := memory.NewOrderStore("processing")
	payments := memory.NewPaymentStore(orders)
	rp := new(MockRazorpayGateway)
	pp := new(MockPayPalGateway)
	m := metrics.New("test", prometheus.NewRegistry())
	converter := currency.NewConverter(memory.NewExchangeRate(dec("0.012")), currency.DefaultFeePercent)
	logger := zap.NewNop()

	return &fixture{
		orders:   orders,
		payments: payments,
		razorpay: rp,
		paypal:   pp,
		metrics:  m,
		domain:   NewPaymentDomain(payments, orders, rp, pp, converter, m, logger),
		refunds:  NewRefundDomain(payments, orders, rp, pp, m, logger),
	}
}

// seedOrder stores a pending order owned by userID.
func (f *fixture) seedOrder(userID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.orders.Put(&model.OrderInfo{
		ID:            id,
		UserID:        userID,
		Status:        "pending",
		PaymentStatus: model.OrderPaymentStatusPending,
		CreatedAt:     time.Now(),
	})
	return id
}

// settledPayment creates a completed payment directly through the store.
func (f *fixture) settledPayment(t *testing.T, userID uuid.UUID, method model.PaymentMethod, amount string) *model.Payment {
	t.Helper()
	ctx := context.Background()
	orderID := f.seedOrder(userID)

	p, err := f.payments.Create(ctx, &model.CreatePaymentInput{
		OrderID:        orderID,
		UserID:         userID,
		Amount:         dec(amount),
		Method:         method,
		GatewayOrderID: "gw_order_" + orderID.String()[:8],
	})
	require.NoError(t, err)

	completed := model.PaymentStatusCompleted
	upd := &model.PaymentUpdate{Status: &completed}
	switch method {
	case model.PaymentMethodRazorpay:
		id := "pay_" + orderID.String()[:8]
		upd.RazorpayPaymentID = &id
	case model.PaymentMethodPayPal:
		id := "CAP-" + orderID.String()[:8]
		upd.PayPalCaptureID = &id
	}
	p, err = f.payments.Update(ctx, p.ID, upd)
	require.NoError(t, err)
	require.NoError(t, f.orders.MarkPaid(ctx, orderID, time.Now()))
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value.
func decEq(s string) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(s)) })
}

// decPtrEq matches a non-nil *decimal argument by value.
func decPtrEq(s string) any {
	return mock.MatchedBy(func(d *decimal.Decimal) bool { return d != nil && d.Equal(dec(s)) })
}
