package rbac_http

import (
	"net/http"

	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/request"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EnforceRequest struct {
	Permission string `json:"permission" binding:"required"`
}

type EnforceResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

type PermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type Handler struct {
	service rbac.Service
	logger  *zap.Logger
}

func NewHandler(service rbac.Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Permissions lists the caller's effective tokens.
func (h *Handler) Permissions(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, PermissionsResponse{
		Role:        actor.Role.String(),
		Permissions: h.service.Permissions(actor.Role),
	}, nil)
}

func (h *Handler) Enforce(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	allowed := h.service.HasPermission(actor.Role, req.Permission)
	h.logger.Debug("rbac enforce",
		zap.String("actor_id", actor.ID.String()),
		zap.String("permission", req.Permission),
		zap.Bool("allowed", allowed),
	)

	response.Success(c, http.StatusOK, EnforceResponse{Permission: req.Permission, Allowed: allowed}, nil)
}
