package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"clientra/internal/core/config"
	"clientra/internal/transport/http/handler"
	mdw "clientra/internal/transport/http/middleware"
	resp "clientra/internal/transport/http/response"
)

type Deps struct {
	Log       *zap.Logger
	Auth      handler.AuthService
	Customers handler.CustomerService
	Checks    map[string]handler.Pinger
	Limits    config.Limits
	Debug     bool // 500 响应回显错误详情
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	lim := d.Limits

	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.Debug(d.Debug),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.Recovery(l),
		cors.Default(),
	)
	// 取值 <= 0 表示关闭对应限制
	if lim.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(lim.RPS), max(lim.Burst, 1)))
	}
	if lim.MaxInFlight > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.MaxInFlight))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(lim.TimeoutSec) * time.Second))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.MsgNotFound, nil))
	})

	sys := handler.NewSystemHandler(d.Checks)
	r.GET("/ping", sys.Ping)
	r.GET("/health", sys.Health)
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))

	api := r.Group("/api")

	// 认证：登录/注册按 IP 限速
	ah := handler.NewAuthHandler(d.Auth)
	authPublic := api.Group("/auth")
	if lim.AuthRPS > 0 {
		authPublic.Use(mdw.RateLimitPerIP(rate.Limit(lim.AuthRPS), max(lim.AuthBurst, 1)))
	}
	ah.MountPublic(authPublic)
	ah.MountPrivate(api.Group("/auth", mdw.AuthJWT(d.Auth)))

	// 客户：全部需要登录
	handler.NewCustomerHandler(d.Customers).Mount(api.Group("/clientes", mdw.AuthJWT(d.Auth)))

	return r
}
