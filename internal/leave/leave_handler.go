package leave

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-leave/internal/identity"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/request"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	h.logger.Debug("http create leave", zap.String("actor_id", actor.ID.String()))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll accepts status, employee_id, page and page_size.
func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), actor, ListQuery{
		Status:     c.Query("status"),
		EmployeeID: c.Query("employee_id"),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.paginate(c, resp)
}

func (h *Handler) ListForApproval(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	resp, err := h.service.ListForApproval(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.paginate(c, resp)
}

func (h *Handler) paginate(c *gin.Context, resp []LeaveResponse) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	items, meta := response.Paginate(resp, page, pageSize)

	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http update leave", zap.String("leave_id", id))

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decideFunc func(ctx context.Context, actor identity.Identity, id string, req DecisionRequest) (LeaveResponse, error)

func (h *Handler) decide(c *gin.Context, fn decideFunc) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http decide leave", zap.String("leave_id", id), zap.String("path", c.FullPath()))

	// the body is optional
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("http decide leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := fn(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http delete leave", zap.String("leave_id", id))

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
