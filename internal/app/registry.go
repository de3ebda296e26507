package app

import (
	"database/sql"

	"go-leave/internal/attendance"
	"go-leave/internal/auth"
	"go-leave/internal/authz"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/rbac_http"
	"go-leave/internal/shared/audit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	notifier notification.Notifier,
	cfg Config,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(rbac.DefaultTable(), logger)
	if err != nil {
		return err
	}
	guard := authz.NewGuard(rbacService, logger)
	scope := authz.NewScopeResolver(employeeRepo, logger)
	auditLogger := audit.NewZapLogger(logger)

	// --- Services ---
	authService := auth.NewService(authRepo, employeeRepo, cfg.JWT, logger)
	attendanceService := attendance.NewService(attendanceRepo, guard, scope, logger)
	employeeService := employee.NewService(db, employeeRepo, guard, scope, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, guard, scope, employeeRepo, notifier, auditLogger, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.JWT, cfg.SecureCookies, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	rbacHandler := rbac_http.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authService)
		attendance.RegisterRoutes(api, attendanceHandler, authService, guard, logger)
		employee.RegisterRoutes(api, employeeHandler, authService, guard, logger)
		leave.RegisterRoutes(api, leaveHandler, authService, guard, rdb, logger)
		rbac_http.RegisterRoutes(api, rbacHandler, authService, logger)
	}

	return nil
}
