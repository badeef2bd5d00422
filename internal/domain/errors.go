package domain

import (
	"errors"
	"fmt"
)

// Kind 错误分类，传输层据此映射 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindDuplicate
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is the single error type that crosses the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(msg string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NewAuth(msg string, fields map[string]string) error {
	return &Error{Kind: KindAuth, Message: msg, Fields: fields}
}

func NewDuplicate(msg string, fields map[string]string) error {
	return &Error{Kind: KindDuplicate, Message: msg, Fields: fields}
}

func NewNotFound(msg string, fields map[string]string) error {
	return &Error{Kind: KindNotFound, Message: msg, Fields: fields}
}

func NewInternal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Fields: map[string]string{"server": causeOf(err)}, Err: err}
}

// KindOf 非 *Error 一律视为 internal
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func causeOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// 存储层哨兵错误，由 repo 返回、service 翻译
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)
