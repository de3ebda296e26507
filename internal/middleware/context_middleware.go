package middleware

import (
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger stores a request-scoped logger carrying request_id and
// employee_id. Mount it after AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rid := contextutil.GetRequestID(ctx)
		if rid == "" {
			rid = c.GetHeader(RequestIDHeader)
		}
		if rid == "" {
			rid = uuid.New().String()
			c.Header(RequestIDHeader, rid)
		}

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("employee_id", c.GetString("employee_id")),
		)

		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
