package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"clientra/internal/core/auth"
	"clientra/internal/domain"
	"clientra/pkg/utils"
)

const (
	MsgInvalidCredentials = "Credenciales inválidas"
	MsgUnauthorized       = "No autorizado"
)

// 用户不存在时也做一次 bcrypt 比较，避免通过耗时区分邮箱是否注册
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3fmm4vOQ4XcM4p5yXJ6eRFm"

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer, l *zap.Logger) *AuthService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuthService{users: users, jwt: jwt, log: l}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func invalidCredentials() error {
	return domain.NewAuth(MsgInvalidCredentials, map[string]string{"auth": "Email o contraseña incorrectos"})
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return "", domain.NewInternal("Error en el servidor", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return "", domain.NewDuplicate("El email ya está registrado", map[string]string{"email": "Ya existe un usuario con ese email"})
		}
		return "", domain.NewInternal("Error en el servidor", err)
	}
	tok, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return "", domain.NewInternal("Error en el servidor", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.UserSummary, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.CheckPassword(password, dummyHash)
		loginTotal.WithLabelValues("invalid").Inc()
		return "", domain.UserSummary{}, invalidCredentials()
	case err != nil:
		loginTotal.WithLabelValues("error").Inc()
		return "", domain.UserSummary{}, domain.NewInternal("Error en el servidor", err)
	}

	if !utils.CheckPassword(password, u.PasswordHash) {
		loginTotal.WithLabelValues("invalid").Inc()
		return "", domain.UserSummary{}, invalidCredentials()
	}
	tok, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return "", domain.UserSummary{}, domain.NewInternal("Error en el servidor", err)
	}
	loginTotal.WithLabelValues("ok").Inc()
	return tok, u.Summary(), nil
}

// Verify 任何解析/过期/注销失败都统一为 401
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.NewAuth(MsgUnauthorized, nil)
	}
	c, err := s.jwt.Verify(ctx, token)
	if errors.Is(err, auth.ErrDenyListUnavailable) {
		s.log.Error("deny list check failed", zap.Error(err))
		return nil, domain.NewInternal("Error en el servidor", err)
	}
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return nil, &domain.Error{Kind: domain.KindAuth, Message: MsgUnauthorized, Err: err}
	}
	return c, nil
}

func (s *AuthService) Logout(ctx context.Context, c *auth.Claims) error {
	if err := s.jwt.Revoke(ctx, c); err != nil {
		return domain.NewInternal("Error en el servidor", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.NewNotFound("Usuario no encontrado", nil)
	case err != nil:
		return nil, domain.NewInternal("Error en el servidor", err)
	}
	return u, nil
}
