package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/uniedit/payrecon/internal/utils/errors"
	"github.com/uniedit/payrecon/internal/utils/middleware"
	"go.uber.org/zap"
)

// handleError writes err using its taxonomy status. Unclassified errors are
// logged and answered with a generic 500 body.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= http.StatusInternalServerError {
			logFailure(c, log, err)
		}
		c.JSON(appErr.StatusCode, appErr.ToResponse())
		return
	}

	status := apperrors.GetStatusCode(err)
	if status >= http.StatusInternalServerError {
		logFailure(c, log, err)
		c.JSON(status, apperrors.Internal("internal server error", nil).ToResponse())
		return
	}
	c.JSON(status, apperrors.ErrorResponse{Error: apperrors.ErrorDetail{
		Code:    http.StatusText(status),
		Message: err.Error(),
	}})
}

func logFailure(c *gin.Context, log *zap.Logger, err error) {
	_ = c.Error(err)
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
}

// badRequest answers malformed input that never reached the domain.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, apperrors.BadRequest(message).ToResponse())
}
