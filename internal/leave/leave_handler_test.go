package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/identity"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	leaveMock "go-leave/internal/leave/mock"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withActor(actor identity.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(contextutil.WithIdentity(c.Request.Context(), actor))
		c.Next()
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_Create(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		sent := true
		svc.EXPECT().
			Create(gomock.Any(), actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ identity.Identity, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "2025-03-10", req.FromDate)
				assert.Equal(t, "sick", req.LeaveType)
				return leave.LeaveResponse{
					ID:               uuid.NewString(),
					EmployeeID:       actor.ID.String(),
					FromDate:         req.FromDate,
					ToDate:           req.ToDate,
					LeaveType:        req.LeaveType,
					Status:           "pending",
					NotificationSent: &sent,
				}, nil
			})

		r := setupRouter()
		r.POST("/leaves", withActor(actor), leave.NewHandler(svc).Create)

		body := `{"from_date":"2025-03-10","to_date":"2025-03-12","reason":"flu","leave_type":"sick"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)

		var got map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "pending", got["status"])
		assert.Equal(t, true, got["notification_sent"])
	})

	t.Run("validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)

		r := setupRouter()
		r.POST("/leaves", withActor(actor), leave.NewHandler(svc).Create)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves",
			strings.NewReader(`{"to_date":"2025-03-12","leave_type":"vacation"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)

		r := setupRouter()
		r.POST("/leaves", leave.NewHandler(svc).Create)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, w).Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleHR}
	ctrl := gomock.NewController(t)
	svc := leaveMock.NewMockService(ctrl)
	svc.EXPECT().
		GetAll(gomock.Any(), actor, leave.ListQuery{Status: "pending"}).
		Return([]leave.LeaveResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil)

	r := setupRouter()
	r.GET("/leaves", withActor(actor), leave.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves?status=pending&page=2&page_size=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var items []leave.LeaveResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ID)
	assert.Equal(t, float64(3), env.Meta["total"])
}

func TestLeaveHandler_Approve(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleManager}
	leaveID := uuid.NewString()

	t.Run("empty body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Approve(gomock.Any(), actor, leaveID, leave.DecisionRequest{}).
			Return(leave.LeaveResponse{ID: leaveID, Status: "approved"}, nil)

		r := setupRouter()
		r.POST("/leaves/:id/approve", withActor(actor), leave.NewHandler(svc).Approve)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("with comments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Reject(gomock.Any(), actor, leaveID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ identity.Identity, _ string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
				require.NotNil(t, req.Comments)
				assert.Equal(t, "team offsite", *req.Comments)
				return leave.LeaveResponse{ID: leaveID, Status: "rejected"}, nil
			})

		r := setupRouter()
		r.POST("/leaves/:id/reject", withActor(actor), leave.NewHandler(svc).Reject)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject",
			strings.NewReader(`{"comments":"team offsite"}`)))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("state error maps to INVALID_STATE", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Approve(gomock.Any(), actor, leaveID, gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrOnlyPendingDecision)

		r := setupRouter()
		r.POST("/leaves/:id/approve", withActor(actor), leave.NewHandler(svc).Approve)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
		assert.Equal(t, "only pending leaves can be approved or rejected", env.Error.Message)
	})
}

func TestLeaveHandler_CancelAndDelete(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee}
	leaveID := uuid.NewString()
	ctrl := gomock.NewController(t)
	svc := leaveMock.NewMockService(ctrl)

	r := setupRouter()
	h := leave.NewHandler(svc)
	r.POST("/leaves/:id/cancel", withActor(actor), h.Cancel)
	r.DELETE("/leaves/:id", withActor(actor), h.Delete)

	t.Run("cancel", func(t *testing.T) {
		svc.EXPECT().Cancel(gomock.Any(), actor, leaveID).
			Return(leave.LeaveResponse{}, leaveerrors.ErrOnlyPendingCancel)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/cancel", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "only pending leaves can be cancelled", decodeEnvelope(t, w).Error.Message)
	})

	t.Run("delete", func(t *testing.T) {
		svc.EXPECT().Delete(gomock.Any(), actor, leaveID).Return(nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/leaves/"+leaveID, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":true}`, string(decodeEnvelope(t, w).Data))
	})
}
