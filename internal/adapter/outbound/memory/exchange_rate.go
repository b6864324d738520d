package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

// ExchangeRate is a process-local INR to USD rate that admins can override.
type ExchangeRate struct {
	mu   sync.RWMutex
	rate decimal.Decimal
}

// NewExchangeRate creates a rate source starting at rate.
func NewExchangeRate(rate decimal.Decimal) *ExchangeRate {
	return &ExchangeRate{rate: rate}
}

func (r *ExchangeRate) INRToUSD(ctx context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rate, nil
}

func (r *ExchangeRate) SetINRToUSD(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return errors.ValidationError("exchange rate must be greater than zero")
	}
	r.mu.Lock()
	r.rate = rate
	r.mu.Unlock()
	return nil
}

var _ outbound.ExchangeRateAdminPort = (*ExchangeRate)(nil)
