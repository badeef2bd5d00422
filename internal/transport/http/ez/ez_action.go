// Package ez 一行注册 JSON 动作：绑定入参、执行、统一错误映射
package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "clientra/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定；空 body 视为 {}
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.Query 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/clientes/:id"
	Binder  Binder
	Status  int // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// bind 返回 false 时已写入响应
func bind[I any](c *gin.Context, b Binder, in *I) bool {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case BindQuery:
		err = c.ShouldBindQuery(in)
	default:
	}
	if err == nil {
		return true
	}
	_ = c.Error(err)
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.MsgBodyTooLarge, nil))
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(resp.MsgBadJSON, nil))
	return false
}

// Handle 把动作包装成 gin.HandlerFunc
func Handle[I any, O any](a Action[I, O]) gin.HandlerFunc {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	return func(c *gin.Context) {
		var in I
		if !bind(c, a.Binder, &in) {
			return
		}
		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, out)
	}
}

// RegisterAction 在分组上注册动作
func RegisterAction[I any, O any](g gin.IRoutes, a Action[I, O]) {
	h := Handle(a)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default: // 默认 POST
		g.POST(a.Path, h)
	}
}
