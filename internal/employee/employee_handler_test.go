package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	employeeMock "go-leave/internal/employee/mock"
	"go-leave/internal/identity"
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

func TestEmployeeHandler_Create(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleHR}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		svc.EXPECT().
			Create(gomock.Any(), actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ identity.Identity, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "John Doe", req.Name)
				return employee.EmployeeResponse{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Role: "employee"}, nil
			})

		r := setupRouter()
		r.POST("/employees", withActor(actor), employee.NewHandler(svc).Create)

		body := `{"name":"John Doe","email":"john@example.com","password":"secret-pass"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeEnvelope(t, w).Ok)
	})

	t.Run("validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)

		r := setupRouter()
		r.POST("/employees", withActor(actor), employee.NewHandler(svc).Create)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"email":"bad"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)

		r := setupRouter()
		r.POST("/employees", employee.NewHandler(svc).Create)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleAdmin}
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	svc.EXPECT().GetAll(gomock.Any(), actor).Return([]employee.EmployeeResponse{
		{ID: "1", Name: "Zed", Email: "zed@example.com"},
		{ID: "2", Name: "Amy", Email: "amy@example.com"},
		{ID: "3", Name: "Bob", Email: "bob@corp.io"},
	}, nil).AnyTimes()

	r := setupRouter()
	r.GET("/employees", withActor(actor), employee.NewHandler(svc).GetAll)

	t.Run("sorted and paginated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?page=1&page_size=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var items []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(env.Data, &items))
		require.Len(t, items, 2)
		assert.Equal(t, "Amy", items[0].Name)
		assert.Equal(t, "Bob", items[1].Name)
		assert.EqualValues(t, 3, env.Meta["total"])
	})

	t.Run("search", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?q=example.com&sort_dir=desc", nil))

		env := decodeEnvelope(t, w)
		var items []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(env.Data, &items))
		require.Len(t, items, 2)
		assert.Equal(t, "Zed", items[0].Name)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	actor := identity.Identity{ID: uuid.New(), Role: rbac.RoleHR}
	target := uuid.NewString()

	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	svc.EXPECT().Delete(gomock.Any(), actor, target).Return(employeeerrors.ErrHasDirectReports)

	r := setupRouter()
	r.DELETE("/employees/:id", withActor(actor), employee.NewHandler(svc).Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/"+target, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}
