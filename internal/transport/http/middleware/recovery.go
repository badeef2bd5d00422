package middleware

import (
	"fmt"
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "clientra/internal/transport/http/response"
)

// Recovery 全局兜底：记录堆栈，返回 500；开发环境回显 panic 内容
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, rec any) {
		body := resp.Error(resp.MsgInternal, nil)
		if c.GetBool(resp.KeyDebug) {
			body.Error = fmt.Sprint(rec)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}

// Debug 标记本请求是否允许回显错误详情
func Debug(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(resp.KeyDebug, enabled)
		c.Next()
	}
}
