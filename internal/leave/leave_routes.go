package leave

import (
	"go-leave/internal/authz"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver middleware.IdentityResolver,
	guard *authz.Guard,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(resolver))
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RequirePermission(guard, rbac.PermCreateLeave),
			middleware.Idempotency(rdb, logger),
			handler.Create,
		)

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(guard, rbac.PermViewAllLeave, rbac.PermViewTeamLeave, rbac.PermViewOwnLeave),
			handler.GetAll,
		)

		leaves.GET("/approvals",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(guard, rbac.PermApproveLeave, rbac.PermRejectLeave),
			handler.ListForApproval,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(guard, rbac.PermViewAllLeave, rbac.PermViewTeamLeave, rbac.PermViewOwnLeave),
			handler.GetByID,
		)

		leaves.PUT("/:id",
			middleware.RateLimitByUser(1, 3),
			middleware.RequirePermission(guard, rbac.PermUpdateLeave, rbac.PermUpdateOwnLeave),
			handler.Update,
		)

		leaves.POST("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RequirePermission(guard, rbac.PermApproveLeave),
			handler.Approve,
		)

		leaves.POST("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RequirePermission(guard, rbac.PermRejectLeave),
			handler.Reject,
		)

		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(1, 3),
			middleware.RequirePermission(guard, rbac.PermUpdateLeave, rbac.PermCancelOwnLeave),
			handler.Cancel,
		)

		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequirePermission(guard, rbac.PermDeleteLeave, rbac.PermDeleteOwnLeave),
			handler.Delete,
		)
	}
}
