package metrics

import (
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New("test", prometheus.NewRegistry())
}

func TestNew(t *testing.T) {
	t.Run("registers everything on the given registry", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := New("", reg)
		assert.NotNil(t, m.HTTPRequestsTotal)
		assert.NotNil(t, m.PaymentsCompletedTotal)
		assert.NotNil(t, m.GatewayBreakerState)

		m.RecordPaymentCompleted("cod")
		families, err := reg.Gather()
		require.NoError(t, err)

		names := make(map[string]bool)
		for _, f := range families {
			names[f.GetName()] = true
		}
		assert.True(t, names["payrecon_payments_completed_total"])
	})

	t.Run("separate registries do not collide", func(t *testing.T) {
		assert.NotPanics(t, func() {
			New("dup", prometheus.NewRegistry())
			New("dup", prometheus.NewRegistry())
		})
	})
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := createTestMetrics(t)

	m.RecordHTTPRequest("GET", "/api/v1/payments/:id", 200, 100*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/payments/:id/refund", 403, 50*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/payments/paypal/capture", 500, 200*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/payments/:id", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments/:id/refund", "4xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments/paypal/capture", "5xx")))
}

func TestMetrics_Payments(t *testing.T) {
	m := createTestMetrics(t)

	m.RecordPaymentCompleted("razorpay")
	m.RecordPaymentCompleted("razorpay")
	m.RecordPaymentFailed("paypal")
	m.RecordRefund("cod", false)
	m.RecordRefund("cod", true)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.PaymentsCompletedTotal.WithLabelValues("razorpay")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PaymentsFailedTotal.WithLabelValues("paypal")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RefundsTotal.WithLabelValues("cod", "partial")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RefundsTotal.WithLabelValues("cod", "full")))
}

func TestMetrics_Gateway(t *testing.T) {
	m := createTestMetrics(t)

	m.RecordGatewayCall("razorpay", "fetch_payment", "ok", 120*time.Millisecond)
	m.RecordGatewayCall("razorpay", "fetch_payment", "error", 30*time.Millisecond)
	m.SetBreakerState("paypal", 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayCallsTotal.WithLabelValues("razorpay", "fetch_payment", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayCallsTotal.WithLabelValues("razorpay", "fetch_payment", "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.GatewayBreakerState.WithLabelValues("paypal")))
}

func TestMetrics_RecordCache(t *testing.T) {
	m := createTestMetrics(t)

	m.RecordCacheHit("exchange_rate")
	m.RecordCacheMiss("exchange_rate")
	m.RecordCacheMiss("exchange_rate")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("exchange_rate")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("exchange_rate")))
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{299, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{422, "4xx"},
		{499, "4xx"},
		{500, "5xx"},
		{599, "5xx"},
		{100, "unknown"},
		{0, "unknown"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCodeToString(tt.code))
		})
	}
}
