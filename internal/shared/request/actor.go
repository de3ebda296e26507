package request

import (
	"go-leave/internal/identity"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Actor returns the authenticated caller. When none is present it writes an
// UNAUTHORIZED envelope and returns false.
func Actor(c *gin.Context) (identity.Identity, bool) {
	actor, ok := contextutil.GetIdentity(c.Request.Context())
	if !ok {
		response.AbortWithError(c, apperror.ErrUnauthorized)
		return identity.Identity{}, false
	}
	return actor, true
}
