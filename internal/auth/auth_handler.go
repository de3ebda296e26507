package auth

import (
	"net/http"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/shared/apperror"
	platform "go-leave/internal/shared/request"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service       Service
	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        *zap.Logger
}

// NewHandler builds the auth handler. secureCookies marks token cookies
// Secure and should be on outside local development.
func NewHandler(s Service, cfg TokenConfig, secureCookies bool, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Handler{
		service:       s,
		secureCookies: secureCookies,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		logger:        l,
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) setTokenCookies(c *gin.Context, pair TokenPair) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))

	pair, resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if platform.IsWebClient(clientType) {
		h.setTokenCookies(c, pair)
	}

	response.Success(c, http.StatusOK, gin.H{
		"employee":      resp,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, nil)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	isWeb := platform.IsWebClient(clientType)

	var refreshToken string
	if isWeb {
		cookie, err := c.Cookie("refresh_token")
		if err != nil {
			h.writeServiceError(c, autherrors.ErrMissingRefreshToken)
			return
		}
		refreshToken = cookie
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		refreshToken = req.RefreshToken
	}

	pair, resp, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if isWeb {
		h.setTokenCookies(c, pair)
	}

	response.Success(c, http.StatusOK, gin.H{
		"employee":      resp,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	actor, ok := platform.Actor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetMe(c.Request.Context(), actor.ID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	// MaxAge < 0 deletes the cookie
	for _, name := range []string{"access_token", "refresh_token"} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	response.Success(c, http.StatusOK, "Logout success.", nil)
}
