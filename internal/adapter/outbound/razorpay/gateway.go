// Package razorpay adapts the Razorpay REST SDK to the INR gateway port.
package razorpay

import (
	"context"
	"fmt"
	"strings"

	"github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"go.uber.org/zap"
)

// orderAPI is the subset of the SDK order resource the gateway uses.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// paymentAPI is the subset of the SDK payment resource the gateway uses.
type paymentAPI interface {
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Refund(paymentID string, amount int, data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Config holds Razorpay credentials.
type Config struct {
	KeyID     string
	KeySecret string
}

// Gateway implements outbound.RazorpayGatewayPort.
type Gateway struct {
	orders    orderAPI
	payments  paymentAPI
	keySecret string
	logger    *zap.Logger
}

// NewGateway creates a Razorpay gateway using the official SDK client.
func NewGateway(cfg *Config, logger *zap.Logger) *Gateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return newGateway(client.Order, client.Payment, cfg.KeySecret, logger)
}

func newGateway(orders orderAPI, payments paymentAPI, keySecret string, logger *zap.Logger) *Gateway {
	return &Gateway{
		orders:    orders,
		payments:  payments,
		keySecret: keySecret,
		logger:    logger.Named("razorpay"),
	}
}

// CreateOrder creates an order. amount is in rupees and sent in paise.
func (g *Gateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := g.orders.Create(map[string]interface{}{
		"amount":          toPaise(amount),
		"currency":        strings.ToUpper(currency),
		"receipt":         receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	order := &model.GatewayOrder{
		ID:       cast.ToString(resp["id"]),
		Status:   cast.ToString(resp["status"]),
		Amount:   fromPaise(resp["amount"]),
		Currency: cast.ToString(resp["currency"]),
		Receipt:  cast.ToString(resp["receipt"]),
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay create order: response has no id")
	}

	g.logger.Debug("order created", zap.String("order_id", order.ID), zap.String("receipt", receipt))
	return order, nil
}

func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.keySecret, orderID, paymentID, signature)
}

// FetchPayment returns the payment with its amount converted back to rupees.
func (g *Gateway) FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := g.payments.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay fetch payment %s: %w", paymentID, err)
	}

	return &model.GatewayPayment{
		ID:       cast.ToString(resp["id"]),
		OrderID:  cast.ToString(resp["order_id"]),
		Amount:   fromPaise(resp["amount"]),
		Currency: cast.ToString(resp["currency"]),
		Status:   cast.ToString(resp["status"]),
	}, nil
}

// Refund refunds amount in rupees. A nil amount refunds the full payment.
func (g *Gateway) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal) (*model.GatewayRefund, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if amount == nil {
		p, err := g.FetchPayment(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		amount = &p.Amount
	}
	paise := int(toPaise(*amount))

	resp, err := g.payments.Refund(paymentID, paise, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay refund %s: %w", paymentID, err)
	}

	refund := &model.GatewayRefund{
		ID:     cast.ToString(resp["id"]),
		Status: cast.ToString(resp["status"]),
		Amount: fromPaise(resp["amount"]),
	}
	if refund.ID == "" {
		return nil, fmt.Errorf("razorpay refund %s: response has no id", paymentID)
	}

	g.logger.Info("refund created",
		zap.String("payment_id", paymentID),
		zap.String("refund_id", refund.ID),
		zap.String("amount", refund.Amount.StringFixed(2)),
	)
	return refund, nil
}

func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromPaise(v interface{}) decimal.Decimal {
	return decimal.New(cast.ToInt64(v), -2)
}

// Compile-time check
var _ outbound.RazorpayGatewayPort = (*Gateway)(nil)
