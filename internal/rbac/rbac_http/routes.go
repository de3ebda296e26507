package rbac_http

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, resolver middleware.IdentityResolver, logger *zap.Logger) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(resolver))
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("/permissions", middleware.RateLimitByUser(3, 10), handler.Permissions)
		group.POST("/enforce", middleware.RateLimitByUser(3, 10), handler.Enforce)
	}
}
