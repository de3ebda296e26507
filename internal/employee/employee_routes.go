package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware(resolver))
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(guard, rbac.PermViewAllEmployee),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RequirePermission(guard, rbac.PermViewAllEmployee),
			handler.GetOptions,
		)

		// own record is readable without view_all_employee; the service
		// checks the rest
		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequirePermission(guard, rbac.PermCreateEmployee),
			handler.Create,
		)

		employees.POST("/batch",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RequirePermission(guard, rbac.PermUploadEmployees),
			handler.BulkCreate,
		)

		employees.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequirePermission(guard, rbac.PermUpdateEmployee),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RequirePermission(guard, rbac.PermDeleteEmployee),
			handler.Delete,
		)
	}
}
