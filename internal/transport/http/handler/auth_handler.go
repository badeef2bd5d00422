package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"clientra/internal/core/auth"
	"clientra/internal/domain"
	"clientra/internal/transport/http/ez"
	mdw "clientra/internal/transport/http/middleware"
	resp "clientra/internal/transport/http/response"
	"clientra/internal/validation"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, domain.UserSummary, error)
	Verify(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, c *auth.Claims) error
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct{ svc AuthService }

func NewAuthHandler(svc AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

type tokenOut struct {
	Token string `json:"token"`
}

type loginOut struct {
	Token string             `json:"token"`
	User  domain.UserSummary `json:"user"`
}

type meOut struct {
	domain.UserSummary
	Role string `json:"rol"`
}

type messageOut struct {
	Message string `json:"message"`
}

// MountPublic /registro 与 /login 不需要登录
func (h *AuthHandler) MountPublic(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[validation.RegisterPayload, tokenOut]{
		Method: http.MethodPost,
		Path:   "/registro",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *validation.RegisterPayload) (tokenOut, error) {
			name, email, password, err := validation.Register(*in)
			if err != nil {
				return tokenOut{}, err
			}
			tok, err := h.svc.Register(c.Request.Context(), name, email, password)
			return tokenOut{Token: tok}, err
		},
	})

	ez.RegisterAction(g, ez.Action[validation.LoginPayload, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *validation.LoginPayload) (loginOut, error) {
			email, password, err := validation.Login(*in)
			if err != nil {
				return loginOut{}, err
			}
			tok, u, err := h.svc.Login(c.Request.Context(), email, password)
			return loginOut{Token: tok, User: u}, err
		},
	})
}

// MountPrivate 挂在 AuthJWT 分组上
func (h *AuthHandler) MountPrivate(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[struct{}, messageOut]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (messageOut, error) {
			claims, ok := mdw.ClaimsFrom(c)
			if !ok {
				return messageOut{}, domain.NewAuth(resp.MsgUnauthorized, nil)
			}
			if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Sesión cerrada"}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (meOut, error) {
			u, err := h.svc.Me(c.Request.Context(), c.GetString(mdw.KeyUserID))
			if err != nil {
				return meOut{}, err
			}
			return meOut{UserSummary: u.Summary(), Role: u.Role}, nil
		},
	})
}
