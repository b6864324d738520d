package currency

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

// DefaultFeePercent is the processing surcharge applied on top of converted amounts.
var DefaultFeePercent = decimal.NewFromInt(7)

var hundred = decimal.NewFromInt(100)

// Converter converts INR amounts to USD and applies the processing fee.
type Converter struct {
	rates      outbound.ExchangeRatePort
	feePercent decimal.Decimal
}

// NewConverter creates a converter. A negative feePercent falls back to DefaultFeePercent.
func NewConverter(rates outbound.ExchangeRatePort, feePercent decimal.Decimal) *Converter {
	if feePercent.IsNegative() {
		feePercent = DefaultFeePercent
	}
	return &Converter{rates: rates, feePercent: feePercent}
}

// FeePercent returns the configured surcharge.
func (c *Converter) FeePercent() decimal.Decimal {
	return c.feePercent
}

// ConvertToUSDWithFee converts amountINR at the current rate. Each figure is
// rounded to cents and Total is USDAmount plus Fee.
func (c *Converter) ConvertToUSDWithFee(ctx context.Context, amountINR decimal.Decimal) (*model.Conversion, error) {
	amountINR = amountINR.Round(2)
	if !amountINR.IsPositive() {
		return nil, errors.ValidationError("amount must be greater than zero")
	}

	rate, err := c.rates.INRToUSD(ctx)
	if err != nil {
		return nil, fmt.Errorf("convertToUSDWithFee: %w", err)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("convertToUSDWithFee: invalid exchange rate %s", rate)
	}

	usd := amountINR.Mul(rate).Round(2)
	fee := usd.Mul(c.feePercent).Div(hundred).Round(2)
	total := usd.Add(fee)
	if !total.IsPositive() {
		return nil, errors.Validationf("amount %s INR is below the smallest USD charge", amountINR.StringFixed(2))
	}

	return &model.Conversion{
		AmountINR:    amountINR,
		USDAmount:    usd,
		Fee:          fee,
		Total:        total,
		ExchangeRate: rate,
	}, nil
}
