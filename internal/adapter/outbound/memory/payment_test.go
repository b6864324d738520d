package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (outbound.PaymentStorePort, *OrderStore, *model.OrderInfo) {
	t.Helper()
	orders := NewOrderStore("processing")
	order := &model.OrderInfo{ID: uuid.New(), UserID: uuid.New(), Status: "pending", PaymentStatus: "pending"}
	orders.Put(order)
	return NewPaymentStore(orders), orders, order
}

func createInput(order *model.OrderInfo, method model.PaymentMethod, gatewayOrderID string) *model.CreatePaymentInput {
	return &model.CreatePaymentInput{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Amount:         decimal.NewFromInt(1000),
		Method:         method,
		GatewayOrderID: gatewayOrderID,
	}
}

func complete(t *testing.T, store outbound.PaymentStorePort, id uuid.UUID, gatewayID string) *model.Payment {
	t.Helper()
	p, err := store.Update(context.Background(), id, &model.PaymentUpdate{
		Status:            ptr(model.PaymentStatusCompleted),
		RazorpayPaymentID: ptr(gatewayID),
	})
	require.NoError(t, err)
	return p
}

func TestPaymentStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists pending payment", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_1"))
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, model.PaymentStatusPending, p.Status)
		assert.Equal(t, "INR", p.Currency)
		assert.Equal(t, "order_1", p.RazorpayOrderID)
	})

	t.Run("validation", func(t *testing.T) {
		store, _, order := setup(t)
		in := createInput(order, model.PaymentMethodRazorpay, "")
		in.Amount = decimal.Zero
		_, err := store.Create(ctx, in)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("unknown order", func(t *testing.T) {
		store, _, _ := setup(t)
		_, err := store.Create(ctx, &model.CreatePaymentInput{
			OrderID: uuid.New(), UserID: uuid.New(), Amount: decimal.NewFromInt(1), Method: model.PaymentMethodCOD,
		})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("conflict when order already settled", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_1"))
		require.NoError(t, err)
		complete(t, store, p.ID, "pay_1")

		_, err = store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_2"))
		assert.True(t, errors.IsConflict(err))
	})

	t.Run("returned payment is a copy", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodCOD, ""))
		require.NoError(t, err)
		p.Status = model.PaymentStatusRefunded

		got, err := store.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, got.Status)
	})
}

func TestPaymentStore_Finders(t *testing.T) {
	ctx := context.Background()
	store, orders, order := setup(t)

	first, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_rz"))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := store.Create(ctx, createInput(order, model.PaymentMethodPayPal, "PP-ORDER"))
	require.NoError(t, err)

	other := &model.OrderInfo{ID: uuid.New(), UserID: order.UserID}
	orders.Put(other)
	third, err := store.Create(ctx, createInput(other, model.PaymentMethodCOD, ""))
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		got, err := store.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)

		missing, err := store.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("by order returns newest", func(t *testing.T) {
		got, err := store.FindByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		missing, err := store.FindByOrderID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("by gateway order searches both gateways", func(t *testing.T) {
		rz, err := store.FindByGatewayOrderID(ctx, "order_rz")
		require.NoError(t, err)
		assert.Equal(t, first.ID, rz.ID)

		pp, err := store.FindByGatewayOrderID(ctx, "PP-ORDER")
		require.NoError(t, err)
		assert.Equal(t, second.ID, pp.ID)

		none, err := store.FindByGatewayOrderID(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("by user newest first with limit", func(t *testing.T) {
		all, err := store.FindByUserID(ctx, order.UserID, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, third.ID, all[0].ID)

		limited, err := store.FindByUserID(ctx, order.UserID, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})
}

func TestPaymentStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		store, _, _ := setup(t)
		_, err := store.Update(ctx, uuid.New(), &model.PaymentUpdate{})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("completion stamps paidAt", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_1"))
		require.NoError(t, err)

		done := complete(t, store, p.ID, "pay_1")
		assert.Equal(t, model.PaymentStatusCompleted, done.Status)
		assert.NotNil(t, done.PaidAt)
		assert.Equal(t, "pay_1", done.TransactionID)
	})

	t.Run("completed payment is frozen", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_1"))
		require.NoError(t, err)
		complete(t, store, p.ID, "pay_1")

		_, err = store.Update(ctx, p.ID, &model.PaymentUpdate{Status: ptr(model.PaymentStatusFailed)})
		assert.True(t, errors.IsConflict(err))
	})

	t.Run("second completion for an order is a conflict", func(t *testing.T) {
		store, _, order := setup(t)
		a, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_a"))
		require.NoError(t, err)
		b, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_b"))
		require.NoError(t, err)

		complete(t, store, a.ID, "pay_a")
		_, err = store.Update(ctx, b.ID, &model.PaymentUpdate{
			Status:            ptr(model.PaymentStatusCompleted),
			RazorpayPaymentID: ptr("pay_b"),
		})
		assert.True(t, errors.IsConflict(err))

		got, err := store.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, got.Status)
	})
}

func TestPaymentStore_Refund(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		store, _, _ := setup(t)
		_, err := store.Refund(ctx, uuid.New(), &model.RefundInput{})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("pending payment is not refundable", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodCOD, ""))
		require.NoError(t, err)

		_, err = store.Refund(ctx, p.ID, &model.RefundInput{})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("partial then full", func(t *testing.T) {
		store, _, order := setup(t)
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_1"))
		require.NoError(t, err)
		complete(t, store, p.ID, "pay_1")

		got, err := store.Refund(ctx, p.ID, &model.RefundInput{Amount: ptr(decimal.NewFromInt(400)), RefundID: "rfnd_1"})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPartiallyRefunded, got.Status)

		got, err = store.Refund(ctx, p.ID, &model.RefundInput{RefundID: "rfnd_2"})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusRefunded, got.Status)
		assert.True(t, decimal.NewFromInt(1000).Equal(got.RefundAmount))
		assert.Equal(t, "rfnd_2", got.RefundID)
	})
}

func TestPaymentStore_ConcurrentCompletion(t *testing.T) {
	ctx := context.Background()
	store, _, order := setup(t)

	const n = 20
	ids := make([]uuid.UUID, n)
	for i := range ids {
		p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, uuid.NewString()))
		require.NoError(t, err)
		ids[i] = p.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, err := store.Update(ctx, id, &model.PaymentUpdate{
				Status:            ptr(model.PaymentStatusCompleted),
				RazorpayPaymentID: ptr(uuid.NewString()),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.IsConflict(err))
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	all, err := store.FindByUserID(ctx, order.UserID, 0)
	require.NoError(t, err)
	completed := 0
	for _, p := range all {
		if p.Status == model.PaymentStatusCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

func TestPaymentStore_ConcurrentRefunds(t *testing.T) {
	ctx := context.Background()
	store, _, order := setup(t)

	p, err := store.Create(ctx, createInput(order, model.PaymentMethodRazorpay, "order_1"))
	require.NoError(t, err)
	complete(t, store, p.ID, "pay_1")

	const n = 25 // 25 x 100 against an amount of 1000
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Refund(ctx, p.ID, &model.RefundInput{Amount: ptr(decimal.NewFromInt(100))})
		}()
	}
	wg.Wait()

	got, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.RefundAmount.Equal(got.Amount))
	assert.Equal(t, model.PaymentStatusRefunded, got.Status)
}
