package middleware

import (
	"context"
	"strings"

	"go-leave/internal/identity"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// IdentityResolver turns a bearer token into the caller's identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (identity.Identity, error)
}

func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if strings.TrimSpace(tokenString) == "" {
			response.AbortWithError(c, apperror.ErrUnauthorized)
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set("employee_id", actor.ID.String())
		c.Set("role", actor.Role.String())
		c.Request = c.Request.WithContext(contextutil.WithIdentity(c.Request.Context(), actor))

		c.Next()
	}
}
