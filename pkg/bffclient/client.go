// Package bffclient 调用 BFF 的客户端，后端不可用时改为直连存储在本地完成同一动作
package bffclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/apperr"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/metrics"
)

// ErrOpenID 无法取得调用者 openid
var ErrOpenID = errors.New("openid_unavailable")

// 不支持本地降级的动作
var (
	ErrUploadUnavailable = apperr.New(http.StatusServiceUnavailable, "UPLOAD_UNAVAILABLE", "当前无法上传照片，请稍后再试")
	ErrDeleteUnavailable = apperr.New(http.StatusServiceUnavailable, "DELETE_UNAVAILABLE", "当前无法删除照片，请稍后再试")
)

// OpenidSource 提供当前调用者的 openid
type OpenidSource interface {
	OpenID(ctx context.Context) (string, error)
}

// StaticOpenID 固定 openid
type StaticOpenID string

// OpenID 实现 OpenidSource 接口
func (s StaticOpenID) OpenID(context.Context) (string, error) {
	if s == "" {
		return "", ErrOpenID
	}
	return string(s), nil
}

// unavailableSignatures 后端不可用的错误特征
var unavailableSignatures = []string{
	"INVALID_HOST",
	"Invalid host",
	"SERVICE_NOT_FOUND",
	"SERVICE_ENDPOINT_NOT_FOUND",
	"SERVICE_FORBIDDEN",
	"MISSING_TCB_API_KEY",
	"TCB_API_KEY_INVALID",
}

// IsBackendUnavailable 判断错误是否意味着 BFF 不可用
//
// 命中错误特征、401/503 或请求未得到任何响应时返回 true；业务错误原样交给调用方
func IsBackendUnavailable(err error) bool {
	if err == nil || errors.Is(err, ErrBadResponse) || errors.Is(err, ErrOpenID) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if e, ok := apperr.As(err); ok {
		if e.Status == http.StatusUnauthorized || e.Status == http.StatusServiceUnavailable {
			return true
		}
		return matchesSignature(e.Code) || matchesSignature(e.Message)
	}
	// 未收到响应
	return true
}

func matchesSignature(s string) bool {
	for _, sig := range unavailableSignatures {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return false
}

// Options 客户端配置
type Options struct {
	BaseURL string
	Timeout time.Duration
	OpenIDs OpenidSource
	// Local 直连存储的服务集合，为 nil 时不降级
	Local   *services.Services
	Clock   clock.Clock
	RoleTTL time.Duration
}

// Client BFF 客户端
type Client struct {
	remote  *Remote
	local   *Local
	roles   *RoleCache
	openids OpenidSource
}

// New 创建客户端
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	c := &Client{
		remote:  NewRemote(opts.BaseURL, opts.Timeout, opts.OpenIDs),
		roles:   NewRoleCache(opts.Clock, opts.RoleTTL),
		openids: opts.OpenIDs,
	}
	if opts.Local != nil {
		c.local = NewLocal(opts.Local, opts.OpenIDs)
	}
	return c
}

// withFallback 先调用远端，后端不可用时改为本地执行
func withFallback[T any](c *Client, action string, remote, local func() (T, error)) (T, error) {
	v, err := remote()
	if err == nil || c.local == nil || !IsBackendUnavailable(err) {
		return v, err
	}
	logger.WarnString("BFFClient", action, "后端不可用，改为本地处理: "+err.Error())
	metrics.BackendFallbacks.WithLabelValues(action).Inc()
	return local()
}

// withoutFallback 仅远端可完成的动作，后端不可用时返回 unavailable
func withoutFallback[T any](remote func() (T, error), unavailable *apperr.Error) (T, error) {
	v, err := remote()
	if err != nil && IsBackendUnavailable(err) {
		var zero T
		return zero, unavailable.WithDetail(err.Error())
	}
	return v, err
}
