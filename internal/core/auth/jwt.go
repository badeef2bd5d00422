package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clientra/pkg/utils"
)

// DefaultTTL 令牌有效期固定 24h（可由配置覆盖）
const DefaultTTL = 24 * time.Hour

var (
	ErrRevoked = errors.New("token revoked")
	// ErrDenyListUnavailable 注销名单查不到时拒绝放行，但不算令牌无效
	ErrDenyListUnavailable = errors.New("deny list unavailable")
)

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"rol"`
	jwt.RegisteredClaims
}

// Remaining 距离过期的剩余时间
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// DenyList 已注销令牌（按 jti）
type DenyList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopDenyList 未配置 redis 时使用：无状态，注销不生效
type NoopDenyList struct{}

func (NoopDenyList) Revoke(context.Context, string, time.Duration) error { return nil }
func (NoopDenyList) IsRevoked(context.Context, string) (bool, error)     { return false, nil }

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Leeway time.Duration
	Deny   DenyList
	Now    func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) ttl() time.Duration {
	if j.TTL <= 0 {
		return DefaultTTL
	}
	return j.TTL
}

func (j *JWTer) Issue(uid, role string) (string, error) {
	now := j.now()
	claims := Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.NewID(),
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(j.Leeway),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, opts...)

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.UserID != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Verify = Parse + 注销名单检查
func (j *JWTer) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if j.Deny == nil || c.ID == "" {
		return c, nil
	}
	revoked, err := j.Deny.IsRevoked(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDenyListUnavailable, err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return c, nil
}

// Revoke 将令牌加入注销名单直至其自然过期
func (j *JWTer) Revoke(ctx context.Context, c *Claims) error {
	if j.Deny == nil || c == nil || c.ID == "" {
		return nil
	}
	ttl := c.Remaining(j.now())
	if ttl <= 0 {
		return nil
	}
	return j.Deny.Revoke(ctx, c.ID, ttl)
}
