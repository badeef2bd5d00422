package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clientra/internal/core/auth"
	"clientra/internal/domain"
	resp "clientra/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthJWT 校验 Authorization: Bearer <token>，通过后写入 userId / role / claims
func AuthJWT(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(ah, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.MsgUnauthorized, nil))
			return
		}
		claims, err := v.Verify(c.Request.Context(), strings.TrimSpace(token))
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindInternal {
			// 依赖故障（注销名单不可用）返回 500，不让客户端误以为令牌失效
			resp.Fail(c, err)
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.MsgUnauthorized, nil))
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*auth.Claims)
	return cl, ok
}
