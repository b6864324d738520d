// Package resilience wraps gateway ports with circuit breakers and call metrics.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	apperrors "github.com/uniedit/payrecon/internal/utils/errors"
	"github.com/uniedit/payrecon/internal/utils/metrics"
	"go.uber.org/zap"
)

// BreakerConfig contains circuit breaker settings.
type BreakerConfig struct {
	FailureThreshold uint32
	HalfOpenRequests uint32
	Interval         time.Duration
	Timeout          time.Duration
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		FailureThreshold: 5,
		HalfOpenRequests: 1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
	}
}

// breaker guards one gateway. Caller errors such as cancelled contexts do not
// count as gateway failures.
type breaker struct {
	name    string
	cb      *gobreaker.CircuitBreaker[any]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func newBreaker(name string, cfg *BreakerConfig, m *metrics.Metrics, logger *zap.Logger) *breaker {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	b := &breaker{name: name, metrics: m, logger: logger}

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("gateway", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.SetBreakerState(name, int(to))
			}
		},
	})
	if m != nil {
		m.SetBreakerState(name, int(gobreaker.StateClosed))
	}
	return b
}

// State returns the breaker state.
func (b *breaker) State() gobreaker.State {
	return b.cb.State()
}

// call runs fn through the breaker and records its outcome.
func call[T any](b *breaker, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})

	status := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "rejected"
		err = apperrors.ServiceUnavailable(b.name + " gateway temporarily unavailable")
	case err != nil:
		status = "error"
	}
	if b.metrics != nil {
		b.metrics.RecordGatewayCall(b.name, op, status, time.Since(start))
	}

	var zero T
	if err != nil {
		return zero, err
	}
	out, _ := res.(T)
	return out, nil
}
