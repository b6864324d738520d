package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/payrecon/internal/domain/currency"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/inbound"
	"github.com/uniedit/payrecon/internal/port/outbound"
	"go.uber.org/zap"
)

// exchangeRateAdapter implements inbound.ExchangeRateHttpPort.
type exchangeRateAdapter struct {
	rates     outbound.ExchangeRateAdminPort
	converter *currency.Converter
	logger    *zap.Logger
}

// NewExchangeRateAdapter creates a new exchange rate HTTP adapter.
func NewExchangeRateAdapter(rates outbound.ExchangeRateAdminPort, converter *currency.Converter, logger *zap.Logger) inbound.ExchangeRateHttpPort {
	return &exchangeRateAdapter{rates: rates, converter: converter, logger: logger}
}

// RegisterExchangeRateRoutes registers admin rate routes. r must already
// require the admin role.
func RegisterExchangeRateRoutes(r *gin.RouterGroup, adapter inbound.ExchangeRateHttpPort) {
	r.GET("/exchange-rate", adapter.GetExchangeRate)
	r.PUT("/exchange-rate", adapter.SetExchangeRate)
}

func (a *exchangeRateAdapter) GetExchangeRate(c *gin.Context) {
	rate, err := a.rates.INRToUSD(c.Request.Context())
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rate":        rate,
		"fee_percent": a.converter.FeePercent(),
	})
}

func (a *exchangeRateAdapter) SetExchangeRate(c *gin.Context) {
	var req model.ExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := a.rates.SetINRToUSD(c.Request.Context(), req.Rate); err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{
		Message: "exchange rate updated",
		Data:    gin.H{"rate": req.Rate},
	})
}
