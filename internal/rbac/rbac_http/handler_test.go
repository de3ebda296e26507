package rbac_http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/identity"
	"go-leave/internal/rbac"
	rbacMock "go-leave/internal/rbac/mock"
	"go-leave/internal/rbac/rbac_http"
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
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupRouter(t *testing.T, actor identity.Identity) *gin.Engine {
	t.Helper()
	svc, err := rbac.NewService(rbac.DefaultTable())
	require.NoError(t, err)
	return setupRouterWith(svc, actor)
}

func setupRouterWith(svc rbac.Service, actor identity.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := rbac_http.NewHandler(svc)

	withActor := func(c *gin.Context) {
		c.Request = c.Request.WithContext(contextutil.WithIdentity(c.Request.Context(), actor))
		c.Next()
	}

	r := gin.New()
	r.GET("/rbac/permissions", withActor, h.Permissions)
	r.POST("/rbac/enforce", withActor, h.Enforce)
	return r
}

func TestHandler_Permissions(t *testing.T) {
	manager := identity.Identity{ID: uuid.New(), Role: rbac.RoleManager}
	r := setupRouter(t, manager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))

	var resp rbac_http.PermissionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "manager", resp.Role)
	assert.Contains(t, resp.Permissions, rbac.PermApproveLeave)
	assert.NotContains(t, resp.Permissions, rbac.PermDeleteLeave)
}

func TestHandler_Enforce(t *testing.T) {
	employee := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee}

	cases := []struct {
		name    string
		body    string
		status  int
		allowed bool
	}{
		{name: "held", body: `{"permission":"create_leave"}`, status: http.StatusOK, allowed: true},
		{name: "not held", body: `{"permission":"approve_leave"}`, status: http.StatusOK, allowed: false},
		{name: "missing permission", body: `{}`, status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(t, employee)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				return
			}
			var env apiEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			var resp rbac_http.EnforceResponse
			require.NoError(t, json.Unmarshal(env.Data, &resp))
			assert.Equal(t, tc.allowed, resp.Allowed)
		})
	}
}

func TestHandler_EnforceUsesCallerRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := rbacMock.NewMockService(ctrl)
	manager := identity.Identity{ID: uuid.New(), Role: rbac.RoleManager}
	r := setupRouterWith(svc, manager)

	svc.EXPECT().HasPermission(rbac.RoleManager, rbac.PermApproveLeave).Return(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(`{"permission":"approve_leave"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resp rbac_http.EnforceResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Allowed)
	assert.Equal(t, rbac.PermApproveLeave, resp.Permission)
}

func TestHandler_PermissionsFromService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := rbacMock.NewMockService(ctrl)
	employee := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee}
	r := setupRouterWith(svc, employee)

	svc.EXPECT().Permissions(rbac.RoleEmployee).Return([]string{rbac.PermCreateLeave})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resp rbac_http.PermissionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "employee", resp.Role)
	assert.Equal(t, []string{rbac.PermCreateLeave}, resp.Permissions)
}
