package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clientra/internal/domain"
)

// KeyDebug gin 上下文标记：为 true 时 500 响应带上错误详情
const KeyDebug = "debug"

type Body struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Saved 创建/更新/删除成功的统一返回
type Saved[T any] struct {
	Message string `json:"message"`
	Cliente T      `json:"cliente"`
}

func Error(msg string, errs map[string]string) Body {
	return Body{Message: msg, Errors: errs}
}

// Fail 写入错误响应；内部错误的细节只在 debug 下回显
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	var de *domain.Error
	if !errors.As(err, &de) {
		de = &domain.Error{Kind: domain.KindInternal, Message: MsgInternal, Err: err}
	}
	status := StatusOf(de.Kind)
	body := Body{Message: de.Message, Errors: de.Fields}
	if de.Kind == domain.KindInternal {
		body.Errors = nil
		if c.GetBool(KeyDebug) {
			body.Errors = de.Fields
			if de.Err != nil {
				body.Error = de.Err.Error()
			}
		}
	}
	c.AbortWithStatusJSON(status, body)
}
