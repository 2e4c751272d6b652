// Package requests 处理请求数据和表单验证
package requests

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// ValidationError 自定义验证错误
type ValidationError struct {
	Errors url.Values
}

// Error 实现 error 接口
func (v ValidationError) Error() string {
	return fmt.Sprintf("验证错误: %v", v.Errors)
}

// ErrMalformedBody 请求体不是合法 JSON
var ErrMalformedBody = errors.New("请求体格式错误")

// ValidateStruct 通用的结构体验证函数，data 必须为结构体指针，字段名取 json 标签
func ValidateStruct(data interface{}, rules govalidator.MapData, messages govalidator.MapData) error {
	opts := govalidator.Options{
		Data:          data,
		Rules:         rules,
		TagIdentifier: "json",
		Messages:      messages,
	}

	if errs := govalidator.New(opts).ValidateStruct(); len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// ValidateRequest 通用的请求验证函数
func ValidateRequest[T any](c *gin.Context, rules govalidator.MapData, messages govalidator.MapData) (*T, error) {
	var req T
	if err := BindJSON(c, &req); err != nil {
		return nil, err
	}
	if err := ValidateStruct(&req, rules, messages); err != nil {
		return nil, err
	}
	return &req, nil
}

// BindJSON 解析请求体，空请求体按 {} 处理
func BindJSON(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil {
		return nil
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return nil
}

// Abort 响应请求错误，校验失败时使用 code 作为错误码
func Abort(c *gin.Context, err error, code string) {
	var verr ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, code, verr.Errors)
		return
	}
	response.Abort400(c, "INVALID_PARAMS", ErrMalformedBody.Error())
}
