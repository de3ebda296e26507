package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type tokenClaims struct {
	Role string `json:"role"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Verify(ctx context.Context, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, employeeID uuid.UUID) (AuthResponse, error)
	Resolve(ctx context.Context, token string) (identity.Identity, error)
}

type service struct {
	repo      Repository
	directory identity.Lookup
	cfg       TokenConfig
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, directory identity.Lookup, cfg TokenConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &service{repo: repo, directory: directory, cfg: cfg, now: time.Now, logger: l}
}

// Verify checks an email/password pair against the stored bcrypt hash.
func (s *service) Verify(ctx context.Context, email, password string) (uuid.UUID, error) {
	cred, err := s.authenticate(ctx, email, password)
	if err != nil {
		return uuid.Nil, err
	}
	return cred.ID, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*Credential, error) {
	// Stored addresses are lower case.
	cred, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return nil, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, autherrors.ErrInvalidCredentials
	}
	return cred, nil
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	s.logger.Debug("login requested", zap.String("email", email))

	cred, err := s.authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info("login failed", zap.String("email", email))
		return TokenPair{}, AuthResponse{}, err
	}

	pair, err := s.issuePair(cred)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	s.logger.Info("login success", zap.String("employee_id", cred.ID.String()))
	return pair, toAuthResponse(cred), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if claims.Type != tokenTypeRefresh {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	cred, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrUnknownEmployee
	}

	pair, err := s.issuePair(cred)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	return pair, toAuthResponse(cred), nil
}

func (s *service) GetMe(ctx context.Context, employeeID uuid.UUID) (AuthResponse, error) {
	cred, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUnknownEmployee
	}
	return toAuthResponse(cred), nil
}

// Resolve verifies an access token and loads the caller's current role and
// manager from the directory. Token claims other than sub are not trusted.
func (s *service) Resolve(ctx context.Context, token string) (identity.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, autherrors.ErrTokenExpired
		}
		return identity.Identity{}, autherrors.ErrInvalidToken
	}
	if claims.Type != tokenTypeAccess {
		return identity.Identity{}, autherrors.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return identity.Identity{}, autherrors.ErrInvalidToken
	}

	actor, err := s.directory.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.Identity{}, autherrors.ErrUnknownEmployee
		}
		s.logger.Error("resolve identity lookup failed", zap.String("employee_id", id.String()), zap.Error(err))
		return identity.Identity{}, err
	}

	return actor, nil
}

func (s *service) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *service) issuePair(cred *Credential) (TokenPair, error) {
	access, err := s.generateToken(cred, tokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.generateToken(cred, tokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) generateToken(cred *Credential, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: cred.Role.String(),
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cred.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func toAuthResponse(cred *Credential) AuthResponse {
	var managerID *string
	if cred.ManagerID != nil {
		v := cred.ManagerID.String()
		managerID = &v
	}
	return AuthResponse{
		ID:        cred.ID.String(),
		Name:      cred.Name,
		Email:     cred.Email,
		Role:      cred.Role.String(),
		Position:  cred.Position,
		ManagerID: managerID,
	}
}
