package attendance

import (
	"go-leave/internal/authz"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver middleware.IdentityResolver,
	guard *authz.Guard,
	logger *zap.Logger,
) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware(resolver))
	attendance.Use(middleware.ContextLogger(logger))
	{
		attendance.GET("/calendar",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(guard,
				rbac.PermViewOwnAttendance,
				rbac.PermViewTeamAttendance,
				rbac.PermViewAllAttendance,
			),
			handler.Calendar,
		)
	}
}
