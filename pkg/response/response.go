// Package response 提供统一的 HTTP 响应处理

package response

import (
	"net/http"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/apperr"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	"github.com/gin-gonic/gin"
)

/* 标准响应结构
{
    "success": true,
    "data": {},      // 成功时返回的数据
    "code": "",      // 失败时的错误码，如 EVENT_FULL
    "message": "",   // 提示信息
    "detail": {}     // 失败时的排查信息
}
*/

// Response 统一响应结构体
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ------------------ 🎯 成功响应系列 ------------------

// Data 响应 200 和数据
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// JSON 直接返回 JSON 数据
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 成功创建的响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

//  ------------------ 错误响应系列 ------------------

// Fail 响应业务错误
func Fail(c *gin.Context, e *apperr.Error) {
	if e.Status >= http.StatusInternalServerError {
		logger.ErrorJSON("Response", e.Code, e)
	}
	c.AbortWithStatusJSON(e.Status, Response{
		Success: false,
		Code:    e.Code,
		Message: e.Message,
		Detail:  e.Detail,
	})
}

// Error 将任意错误转换为业务错误后响应，无法识别时使用 fallback
func Error(c *gin.Context, err error, fallback *apperr.Error) {
	Fail(c, apperr.From(err, fallback))
}

// Abort400 响应 400 错误
func Abort400(c *gin.Context, code string, msg ...string) {
	Fail(c, apperr.New(http.StatusBadRequest, code, getMsg("请求参数错误", msg...)))
}

// Abort401 响应 401 错误
func Abort401(c *gin.Context, code string, msg ...string) {
	Fail(c, apperr.New(http.StatusUnauthorized, code, getMsg("身份校验失败", msg...)))
}

// Abort403 响应 403 错误
func Abort403(c *gin.Context, code string, msg ...string) {
	Fail(c, apperr.New(http.StatusForbidden, code, getMsg("无权限访问", msg...)))
}

// Abort404 响应 404 错误
func Abort404(c *gin.Context, code string, msg ...string) {
	Fail(c, apperr.New(http.StatusNotFound, code, getMsg("资源不存在", msg...)))
}

// Abort429 响应 429 错误
func Abort429(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
		Success: false,
		Code:    "RATE_LIMIT",
		Message: getMsg("请求过于频繁，请稍后再试", msg...),
	})
}

// Abort500 响应 500 错误
func Abort500(c *gin.Context, msg ...string) {
	Fail(c, apperr.New(http.StatusInternalServerError, "INTERNAL_ERROR", getMsg("服务器内部错误", msg...)))
}

// ValidationError 响应 400 表单验证错误
func ValidationError(c *gin.Context, code string, errors map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Code:    code,
		Message: firstError(errors, "请求参数错误"),
		Detail:  errors,
	})
}

// getMsg 获取消息内容
func getMsg(defaultMsg string, msg ...string) string {
	if len(msg) > 0 {
		return msg[0]
	}
	return defaultMsg
}

// firstError 取第一条校验错误作为提示文案
func firstError(errors map[string][]string, defaultMsg string) string {
	for _, msgs := range errors {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return defaultMsg
}
