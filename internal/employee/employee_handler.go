package employee

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
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
	h.logger.Debug("http create employee", zap.String("actor_id", actor.ID.String()))

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
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

func (h *Handler) BulkCreate(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	var req BulkCreateEmployeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http bulk create employees validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	h.logger.Debug("http bulk create employees", zap.Int("count", len(req.Employees)))

	resp, err := h.service.BulkCreate(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"created": len(resp), "employees": resp}, nil)
}

// GetAll supports q (name/email search), sort_by, sort_dir, page and
// page_size query parameters.
func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	h.logger.Debug("http get all employees", zap.String("actor_id", actor.ID.String()))

	resp, err := h.service.GetAll(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Email), q) {
				filtered = append(filtered, e)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name")))
	desc := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc"))) == "desc"
	sort.SliceStable(resp, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "email":
			less = strings.ToLower(resp[i].Email) < strings.ToLower(resp[j].Email)
		case "role":
			less = resp[i].Role < resp[j].Role
		default:
			less = strings.ToLower(resp[i].Name) < strings.ToLower(resp[j].Name)
		}
		if desc {
			return !less
		}
		return less
	})

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	items, meta := response.Paginate(resp, page, pageSize)

	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetOptions(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetOptions(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	targetID := c.Param("id")
	h.logger.Debug("http get employee by id", zap.String("employee_id", targetID))

	resp, err := h.service.GetByID(c.Request.Context(), actor, targetID)
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
	h.logger.Debug("http update employee", zap.String("employee_id", id))

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee validation failed", zap.Error(err))
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

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http delete employee", zap.String("employee_id", id))

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
