// Package cloudbase 封装云开发 HTTP API：关系型数据库 REST、云存储与身份认证
package cloudbase

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

	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// DefaultTimeout 单次请求超时，超时直接失败不重试
const DefaultTimeout = 12 * time.Second

var (
	// ErrMissingEnvID 未配置云开发环境 ID
	ErrMissingEnvID = errors.New("missing_env_id")
	// ErrMissingAPIKey 未配置服务端 API Key
	ErrMissingAPIKey = errors.New("missing_tcb_api_key")
)

// APIError 云开发接口返回的非 2xx 响应
type APIError struct {
	Status  int
	Payload []byte
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	return fmt.Sprintf("cloudbase_api_error: status %d: %s", e.Status, string(e.Payload))
}

// Detail 解析后的响应体，用于对外输出排查信息
func (e *APIError) Detail() interface{} {
	var v interface{}
	if err := json.Unmarshal(e.Payload, &v); err == nil {
		return v
	}
	return string(e.Payload)
}

// Config 客户端配置
type Config struct {
	EnvID        string
	APIKey       string
	ClientID     string
	ClientSecret string
	ProviderID   string
	BaseURL      string // 为空时按 EnvID 生成
	Timeout      time.Duration
}

// Client 云开发 HTTP API 客户端
type Client struct {
	config Config
	http   *resty.Client
}

// NewClient 创建客户端
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.BaseURL == "" && config.EnvID != "" {
		config.BaseURL = fmt.Sprintf("https://%s.api.tcloudbasegateway.com", config.EnvID)
	}
	if config.ProviderID == "" {
		config.ProviderID = "wechat"
	}

	return &Client{
		config: config,
		http: resty.New().
			SetTimeout(config.Timeout).
			SetBaseURL(strings.TrimRight(config.BaseURL, "/")),
	}
}

// HasAPIKey 是否配置了服务端 API Key
func (c *Client) HasAPIKey() bool {
	return c.config.APIKey != ""
}

// EnvID 云开发环境 ID
func (c *Client) EnvID() string {
	return c.config.EnvID
}

// systemAuthHeader 服务端 API Key 鉴权头
func (c *Client) systemAuthHeader() (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	return "Bearer " + c.config.APIKey, nil
}

// request 描述一次 HTTP 调用
type request struct {
	method  string
	path    string
	query   url.Values
	headers map[string]string
	body    interface{}
}

// do 发起请求，返回原始响应体
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	if c.config.BaseURL == "" {
		return nil, ErrMissingEnvID
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeaders(r.headers)
	if len(r.query) > 0 {
		req.SetQueryParamsFromValues(r.query)
	}
	if r.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(r.body)
	}

	start := time.Now()
	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		logger.WarnString("CloudBase", "Request", fmt.Sprintf("请求失败 %s %s 错误:%v", r.method, r.path, err))
		return nil, fmt.Errorf("cloudbase request %s %s: %w", r.method, r.path, err)
	}

	logger.DebugString("CloudBase", "Response", fmt.Sprintf(
		"请求完成 %s %s 状态:%d 耗时:%v 响应长度:%d",
		r.method, r.path, resp.StatusCode(), time.Since(start), len(resp.Body())))

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &APIError{Status: resp.StatusCode(), Payload: resp.Body()}
	}
	return resp.Body(), nil
}
