//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Ports
	"github.com/uniedit/payrecon/internal/port/inbound"
	"github.com/uniedit/payrecon/internal/port/outbound"

	// Infrastructure
	"github.com/uniedit/payrecon/internal/infra/config"

	// Utils
	"github.com/uniedit/payrecon/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Registry      *prometheus.Registry
	Metrics       *metrics.Metrics
	DB            *gorm.DB
	Redis         goredis.UniversalClient
	RateLimiter   outbound.RateLimiterPort
	TokenVerifier outbound.TokenVerifierPort

	// Stores
	Orders   outbound.OrderStorePort
	Payments outbound.PaymentStorePort

	// HTTP Handlers
	PaymentHandler      inbound.PaymentHttpPort
	RefundHandler       inbound.RefundHttpPort
	ExchangeRateHandler inbound.ExchangeRateHttpPort
}

// InitializeDependencies creates all dependencies using Wire.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
