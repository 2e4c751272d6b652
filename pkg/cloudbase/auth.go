package cloudbase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// AuthProfile 身份认证服务返回的用户信息（/auth/v1/user/me）
type AuthProfile map[string]interface{}

// String 读取字符串字段
func (p AuthProfile) String(key string) string {
	if v, ok := p[key]; ok && v != nil {
		switch s := v.(type) {
		case string:
			return s
		case float64:
			return fmt.Sprintf("%.0f", s)
		default:
			return fmt.Sprint(s)
		}
	}
	return ""
}

// ProviderTokenRequest 第三方授权码换取 provider_token
type ProviderTokenRequest struct {
	ProviderID          string `json:"provider_id"`
	ProviderCode        string `json:"provider_code"`
	ProviderRedirectURI string `json:"provider_redirect_uri,omitempty"`
}

// ProviderGrant provider_token 换取结果
type ProviderGrant struct {
	ProviderToken   string                 `json:"provider_token"`
	ProviderProfile map[string]interface{} `json:"provider_profile"`
}

// SignInRequest 使用 provider_token 登录
type SignInRequest struct {
	ProviderID         string `json:"provider_id"`
	ProviderToken      string `json:"provider_token"`
	ForceDisableSignUp bool   `json:"force_disable_sign_up"`
	SyncProfile        bool   `json:"sync_profile"`
}

// NewDeviceID 生成设备标识
func NewDeviceID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// ProviderID 默认的第三方身份源
func (c *Client) ProviderID() string {
	return c.config.ProviderID
}

// UserMe 使用用户 access token 查询当前用户
func (c *Client) UserMe(ctx context.Context, token string) (AuthProfile, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user/me",
		headers: map[string]string{
			"Authorization": "Bearer " + token,
			"x-device-id":   NewDeviceID("device"),
		},
	})
	if err != nil {
		return nil, err
	}
	profile := AuthProfile{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal auth profile: %w", err)
		}
	}
	return profile, nil
}

// ProviderToken 授权码换取 provider_token
func (c *Client) ProviderToken(ctx context.Context, req ProviderTokenRequest, deviceID string) (*ProviderGrant, error) {
	body, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/auth/v1/provider/token",
		query:   c.clientQuery(),
		headers: c.clientHeaders(deviceID),
		body:    req,
	})
	if err != nil {
		return nil, err
	}
	grant := &ProviderGrant{}
	if err := json.Unmarshal(body, grant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider grant: %w", err)
	}
	return grant, nil
}

// SignInWithProvider 第三方身份登录，返回包含 access_token 的登录结果
func (c *Client) SignInWithProvider(ctx context.Context, req SignInRequest, deviceID string) (map[string]interface{}, error) {
	body, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/auth/v1/signin/with/provider",
		query:   c.clientQuery(),
		headers: c.clientHeaders(deviceID),
		body:    req,
	})
	if err != nil {
		return nil, err
	}
	result := map[string]interface{}{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signin result: %w", err)
	}
	return result, nil
}

func (c *Client) clientQuery() url.Values {
	q := url.Values{}
	if c.config.ClientID != "" {
		q.Set("client_id", c.config.ClientID)
	}
	return q
}

func (c *Client) clientHeaders(deviceID string) map[string]string {
	headers := map[string]string{"x-device-id": deviceID}
	if c.config.ClientID != "" && c.config.ClientSecret != "" {
		token := base64.StdEncoding.EncodeToString([]byte(c.config.ClientID + ":" + c.config.ClientSecret))
		headers["Authorization"] = "Basic " + token
	}
	return headers
}
