package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/uniedit/payrecon/internal/port/outbound"
	apperrors "github.com/uniedit/payrecon/internal/utils/errors"
	"github.com/uniedit/payrecon/internal/utils/metrics"
	"go.uber.org/zap"
)

const rateCacheName = "exchange_rate"

// exchangeRate reads an override rate from Redis and falls back to a static
// rate when the key is missing or Redis fails.
type exchangeRate struct {
	client   redis.UniversalClient
	key      string
	ttl      time.Duration
	fallback decimal.Decimal
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewExchangeRate creates a Redis backed rate source. A zero ttl stores
// overrides without expiry.
func NewExchangeRate(client redis.UniversalClient, key string, ttl time.Duration, fallback decimal.Decimal, m *metrics.Metrics, logger *zap.Logger) outbound.ExchangeRateAdminPort {
	return &exchangeRate{
		client:   client,
		key:      key,
		ttl:      ttl,
		fallback: fallback,
		metrics:  m,
		logger:   logger,
	}
}

func (r *exchangeRate) INRToUSD(ctx context.Context) (decimal.Decimal, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		r.miss()
		return r.fallback, nil
	case err != nil:
		r.miss()
		r.logger.Warn("exchange rate lookup failed, using fallback", zap.String("key", r.key), zap.Error(err))
		return r.fallback, nil
	}

	rate, err := decimal.NewFromString(val)
	if err != nil || !rate.IsPositive() {
		r.miss()
		r.logger.Warn("invalid exchange rate override, using fallback", zap.String("key", r.key), zap.String("value", val))
		return r.fallback, nil
	}

	if r.metrics != nil {
		r.metrics.RecordCacheHit(rateCacheName)
	}
	return rate, nil
}

func (r *exchangeRate) SetINRToUSD(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return apperrors.ValidationError("exchange rate must be greater than zero")
	}
	if err := r.client.Set(ctx, r.key, rate.String(), r.ttl).Err(); err != nil {
		return fmt.Errorf("set exchange rate: %w", err)
	}
	r.logger.Info("exchange rate override stored", zap.String("key", r.key), zap.String("rate", rate.String()))
	return nil
}

func (r *exchangeRate) miss() {
	if r.metrics != nil {
		r.metrics.RecordCacheMiss(rateCacheName)
	}
}

// Compile-time check
var _ outbound.ExchangeRateAdminPort = (*exchangeRate)(nil)
