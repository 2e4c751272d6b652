// Package apperr 定义携带 HTTP 状态码与业务错误码的应用错误
package apperr

import (
	"errors"
	"net/http"
)

// Error 业务错误
//
// Status 为 HTTP 状态码，Code 为简短的大写错误标识（如 EVENT_FULL），
// Message 为面向用户的提示文案，Detail 为可选的排查信息
type Error struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// New 创建业务错误
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is 按错误码比较，使 errors.Is 对携带不同 Detail 的副本同样成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail 返回附带排查信息的副本
func (e *Error) WithDetail(detail interface{}) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithMessage 返回替换提示文案的副本
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// As 从错误链中取出业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// From 将任意错误转换为业务错误，无法识别时使用 fallback 并附带原始错误信息
func From(err error, fallback *Error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	if fallback == nil {
		fallback = New(http.StatusInternalServerError, "INTERNAL_ERROR", "服务器内部错误")
	}
	return fallback.WithDetail(err.Error())
}
