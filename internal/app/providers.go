package app

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/uniedit/payrecon/internal/domain/currency"
	"github.com/uniedit/payrecon/internal/domain/payment"

	// Inbound adapters
	ginadapter "github.com/uniedit/payrecon/internal/adapter/inbound/gin"

	// Ports
	"github.com/uniedit/payrecon/internal/port/outbound"

	// Outbound adapters
	"github.com/uniedit/payrecon/internal/adapter/outbound/memory"
	"github.com/uniedit/payrecon/internal/adapter/outbound/paypal"
	"github.com/uniedit/payrecon/internal/adapter/outbound/postgres"
	"github.com/uniedit/payrecon/internal/adapter/outbound/razorpay"
	redisadapter "github.com/uniedit/payrecon/internal/adapter/outbound/redis"
	"github.com/uniedit/payrecon/internal/adapter/outbound/resilience"
	"github.com/uniedit/payrecon/internal/adapter/outbound/token"

	// Infrastructure
	"github.com/uniedit/payrecon/internal/infra/cache"
	"github.com/uniedit/payrecon/internal/infra/config"
	"github.com/uniedit/payrecon/internal/infra/database"
	"github.com/uniedit/payrecon/internal/infra/httpclient"

	// Utils
	"github.com/uniedit/payrecon/internal/utils/logger"
	"github.com/uniedit/payrecon/internal/utils/metrics"
)

const metricsNamespace = "payrecon"

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideZapLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideRateLimiter,
	ProvideTokenVerifier,
)

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(metricsNamespace, reg)
}

// ProvideDatabase opens Postgres when it backs the stores. The memory driver
// gets a nil *gorm.DB.
func ProvideDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	if cfg.Storage.Driver != "postgres" {
		return nil, func() {}, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
	}

	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional: a missing
// address or failed ping returns nil.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		log.Warn("Redis connection failed, continuing without it", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = cache.Close(client) }
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideRateLimiter creates a rate limiter. Nil disables rate limiting.
func ProvideRateLimiter(cfg *config.Config, redis goredis.UniversalClient) outbound.RateLimiterPort {
	if redis == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return redisadapter.NewRateLimiter(redis)
}

// ProvideTokenVerifier creates the bearer token verifier.
func ProvideTokenVerifier(cfg *config.Config) outbound.TokenVerifierPort {
	return token.NewJWTManager(&token.JWTConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	})
}

// ===== Store Providers =====

// StoreSet provides the order and payment record stores.
var StoreSet = wire.NewSet(
	ProvideOrderStore,
	ProvidePaymentStore,
)

// ProvideOrderStore selects the order store for the configured driver.
func ProvideOrderStore(cfg *config.Config, db *gorm.DB) outbound.OrderStorePort {
	if db == nil {
		return memory.NewOrderStore(cfg.Orders.PaidStatus)
	}
	return postgres.NewOrderAdapter(db, cfg.Orders.PaidStatus)
}

// ProvidePaymentStore selects the payment store for the configured driver.
func ProvidePaymentStore(db *gorm.DB, orders outbound.OrderStorePort) outbound.PaymentStorePort {
	if db == nil {
		return memory.NewPaymentStore(orders)
	}
	return postgres.NewPaymentAdapter(db)
}

// ===== Gateway Providers =====

// GatewaySet provides the payment gateways.
var GatewaySet = wire.NewSet(
	ProvideRazorpayGateway,
	ProvidePayPalGateway,
)

func breakerConfig(cfg *config.Config) *resilience.BreakerConfig {
	return &resilience.BreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
	}
}

// ProvideRazorpayGateway creates the Razorpay gateway, guarded by a circuit
// breaker when enabled.
func ProvideRazorpayGateway(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) outbound.RazorpayGatewayPort {
	var gw outbound.RazorpayGatewayPort = razorpay.NewGateway(&razorpay.Config{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
	}, log)
	if cfg.Breaker.Enabled {
		gw = resilience.NewRazorpayGateway(gw, breakerConfig(cfg), m, log)
	}
	return gw
}

// ProvidePayPalGateway creates the PayPal gateway, guarded by a circuit
// breaker when enabled.
func ProvidePayPalGateway(cfg *config.Config, httpClient *http.Client, m *metrics.Metrics, log *zap.Logger) (outbound.PayPalGatewayPort, error) {
	pp, err := paypal.NewGateway(&paypal.Config{
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
		Sandbox:      cfg.PayPal.Sandbox,
		BaseURL:      cfg.PayPal.BaseURL,
	}, httpClient, log)
	if err != nil {
		return nil, err
	}

	var gw outbound.PayPalGatewayPort = pp
	if cfg.Breaker.Enabled {
		gw = resilience.NewPayPalGateway(gw, breakerConfig(cfg), m, log)
	}
	return gw, nil
}

// ===== Currency Providers =====

// CurrencySet provides the exchange rate source and converter.
var CurrencySet = wire.NewSet(
	ProvideExchangeRate,
	ProvideExchangeRateReader,
	ProvideConverter,
)

// ProvideExchangeRate reads the runtime rate from Redis when available and
// falls back to the configured static rate.
func ProvideExchangeRate(cfg *config.Config, redis goredis.UniversalClient, m *metrics.Metrics, log *zap.Logger) outbound.ExchangeRateAdminPort {
	static := decimal.NewFromFloat(cfg.Currency.INRToUSDRate)
	if redis == nil || !cfg.Currency.RedisOverride {
		return memory.NewExchangeRate(static)
	}
	return redisadapter.NewExchangeRate(redis, cfg.Currency.RateKey, cfg.Currency.RateTTL, static, m, log)
}

// ProvideExchangeRateReader narrows the rate source for the converter.
func ProvideExchangeRateReader(rates outbound.ExchangeRateAdminPort) outbound.ExchangeRatePort {
	return rates
}

// ProvideConverter creates the INR to USD converter.
func ProvideConverter(cfg *config.Config, rates outbound.ExchangeRatePort) *currency.Converter {
	return currency.NewConverter(rates, decimal.NewFromFloat(cfg.Currency.FeePercent))
}

// ===== Domain Providers =====

// DomainSet provides the payment domains.
var DomainSet = wire.NewSet(
	payment.NewPaymentDomain,
	payment.NewRefundDomain,
)

// ===== HTTP Adapter Providers =====

// HTTPAdapterSet provides the inbound HTTP adapters.
var HTTPAdapterSet = wire.NewSet(
	ginadapter.NewPaymentAdapter,
	ginadapter.NewRefundAdapter,
	ginadapter.NewExchangeRateAdapter,
)

// AppSet is the complete provider set.
var AppSet = wire.NewSet(
	InfraSet,
	StoreSet,
	GatewaySet,
	CurrencySet,
	DomainSet,
	HTTPAdapterSet,
)

// Compile-time port checks.
var (
	_ outbound.ExchangeRatePort    = (*memory.ExchangeRate)(nil)
	_ outbound.RazorpayGatewayPort = (*razorpay.Gateway)(nil)
	_ outbound.PayPalGatewayPort   = (*paypal.Gateway)(nil)
)
