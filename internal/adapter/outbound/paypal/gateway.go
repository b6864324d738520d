// Package paypal adapts the PayPal Orders v2 API to the USD gateway port.
package paypal

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"go.uber.org/zap"
)

// Config holds PayPal REST credentials. BaseURL overrides the environment
// selected by Sandbox.
type Config struct {
	ClientID     string
	ClientSecret string
	Sandbox      bool
	BaseURL      string
}

// Gateway implements outbound.PayPalGatewayPort.
type Gateway struct {
	client *paypal.Client
	logger *zap.Logger
}

// NewGateway creates a PayPal gateway. httpClient may be nil.
func NewGateway(cfg *Config, httpClient *http.Client, logger *zap.Logger) (*Gateway, error) {
	base := cfg.BaseURL
	if base == "" {
		base = paypal.APIBaseLive
		if cfg.Sandbox {
			base = paypal.APIBaseSandBox
		}
	}

	client, err := paypal.NewClient(cfg.ClientID, cfg.ClientSecret, base)
	if err != nil {
		return nil, fmt.Errorf("paypal client: %w", err)
	}
	if httpClient != nil {
		client.SetHTTPClient(httpClient)
	}

	return &Gateway{client: client, logger: logger.Named("paypal")}, nil
}

// CreateOrder creates a CAPTURE intent order for amount.
func (g *Gateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*model.GatewayOrder, error) {
	units := []paypal.PurchaseUnitRequest{
		{
			ReferenceID: receipt,
			Amount: &paypal.PurchaseUnitAmount{
				Currency: strings.ToUpper(currency),
				Value:    amount.StringFixed(2),
			},
		},
	}

	order, err := g.client.CreateOrder(ctx, "CAPTURE", units, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	g.logger.Debug("order created", zap.String("order_id", order.ID), zap.String("status", order.Status))
	return &model.GatewayOrder{
		ID:       order.ID,
		Status:   order.Status,
		Amount:   amount,
		Currency: strings.ToUpper(currency),
		Receipt:  receipt,
	}, nil
}

// Capture captures an approved order. The capture id and amount come from
// the first capture of the first purchase unit and are empty when absent.
func (g *Gateway) Capture(ctx context.Context, orderID string) (*model.GatewayCapture, error) {
	resp, err := g.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("paypal capture %s: %w", orderID, err)
	}

	out := &model.GatewayCapture{OrderID: resp.ID, Status: resp.Status}
	if out.OrderID == "" {
		out.OrderID = orderID
	}
	if len(resp.PurchaseUnits) > 0 && resp.PurchaseUnits[0].Payments != nil {
		if captures := resp.PurchaseUnits[0].Payments.Captures; len(captures) > 0 {
			c := captures[0]
			out.CaptureID = c.ID
			if c.Amount != nil {
				out.Currency = c.Amount.Currency
				if v, err := decimal.NewFromString(c.Amount.Value); err == nil {
					out.Amount = v
				}
			}
		}
	}

	g.logger.Info("order captured",
		zap.String("order_id", out.OrderID),
		zap.String("status", out.Status),
		zap.String("capture_id", out.CaptureID),
	)
	return out, nil
}

// Refund refunds amount of a capture. A nil amount refunds the full capture.
func (g *Gateway) Refund(ctx context.Context, captureID string, amount *decimal.Decimal, currency string) (*model.GatewayRefund, error) {
	req := paypal.RefundCaptureRequest{}
	if amount != nil {
		req.Amount = &paypal.Money{
			Currency: strings.ToUpper(currency),
			Value:    amount.StringFixed(2),
		}
	}

	resp, err := g.client.RefundCapture(ctx, captureID, req)
	if err != nil {
		return nil, fmt.Errorf("paypal refund %s: %w", captureID, err)
	}

	out := &model.GatewayRefund{ID: resp.ID, Status: resp.Status}
	if resp.Amount != nil {
		if v, err := decimal.NewFromString(resp.Amount.Value); err == nil {
			out.Amount = v
		}
	} else if amount != nil {
		out.Amount = *amount
	}

	g.logger.Info("refund created",
		zap.String("capture_id", captureID),
		zap.String("refund_id", out.ID),
		zap.String("status", out.Status),
	)
	return out, nil
}

// Compile-time check
var _ outbound.PayPalGatewayPort = (*Gateway)(nil)
