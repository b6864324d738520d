package gin

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/payrecon/internal/domain/payment"
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/port/inbound"
	"go.uber.org/zap"
)

// refundAdapter implements inbound.RefundHttpPort.
type refundAdapter struct {
	domain payment.RefundDomain
	logger *zap.Logger
}

// NewRefundAdapter creates a new refund HTTP adapter.
func NewRefundAdapter(domain payment.RefundDomain, logger *zap.Logger) inbound.RefundHttpPort {
	return &refundAdapter{domain: domain, logger: logger}
}

// RegisterRefundRoutes registers refund routes.
func RegisterRefundRoutes(r *gin.RouterGroup, adapter inbound.RefundHttpPort) {
	r.POST("/payments/:id/refund", adapter.CreateRefund)
}

// CreateRefund accepts an empty body as a full refund.
func (a *refundAdapter) CreateRefund(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	p, err := a.domain.Refund(c.Request.Context(), id, &req, actor)
	if err != nil {
		handleError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
