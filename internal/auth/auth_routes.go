package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, resolver middleware.IdentityResolver) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me",
			middleware.AuthMiddleware(resolver),
			middleware.RateLimitByUser(2, 5),
			handler.Me,
		)
	}
}
