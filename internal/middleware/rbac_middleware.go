package middleware

import (
	"go-leave/internal/authz"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequirePermission lets the request through when the caller holds any of
// tokens. Scope checks stay in the services.
func RequirePermission(guard *authz.Guard, tokens ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := contextutil.GetIdentity(c.Request.Context())
		if !ok {
			response.AbortWithError(c, apperror.ErrUnauthorized)
			return
		}

		if err := guard.AuthorizeAny(actor, tokens...); err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
