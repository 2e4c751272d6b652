package bffclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/apperr"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// ErrBadResponse BFF 返回了无法解析的响应体
var ErrBadResponse = errors.New("bff_bad_response")

// envelope BFF 统一响应结构
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Detail  interface{}     `json:"detail"`
}

// Remote 通过 HTTP 调用 BFF，以 x-wx-openid 头传递调用者身份
type Remote struct {
	http    *resty.Client
	openids OpenidSource
}

// NewRemote 创建远端客户端
func NewRemote(baseURL string, timeout time.Duration, openids OpenidSource) *Remote {
	return &Remote{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		openids: openids,
	}
}

// call 发起请求并把 data 解码到 out
//
// 传输层失败原样返回；非 2xx 或 success=false 返回 *apperr.Error
func (r *Remote) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req := r.http.R().SetContext(ctx)
	if r.openids != nil {
		openid, err := r.openids.OpenID(ctx)
		if err != nil {
			return err
		}
		req.SetHeader(services.HeaderOpenID, openid)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		logger.WarnString("BFFClient", "Request", fmt.Sprintf("请求失败 %s %s 错误:%v", method, path, err))
		return fmt.Errorf("bff request %s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.StatusCode() >= http.StatusBadRequest {
			return remoteError(resp.StatusCode(), envelope{Message: string(resp.Body())})
		}
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest || !env.Success {
		return remoteError(resp.StatusCode(), env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}

func remoteError(status int, env envelope) *apperr.Error {
	code := env.Code
	if code == "" {
		code = env.Error
	}
	if code == "" {
		code = "REQUEST_FAILED"
	}
	message := env.Message
	if message == "" {
		message = http.StatusText(status)
	}
	e := apperr.New(status, code, message)
	if env.Detail != nil {
		e = e.WithDetail(env.Detail)
	}
	return e
}
