package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/identitylink"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
)

// 网关注入的身份请求头
const (
	HeaderOpenID        = "x-wx-openid"
	HeaderUnionID       = "x-wx-unionid"
	HeaderAppID         = "x-wx-appid"
	HeaderCloudbaseCtx  = "x-cloudbase-context"
	HeaderAuthorization = "Authorization"

	authOpenIDSubPrefix = "auth_sub_"
	bearerPrefix        = "bearer "
)

// AuthProvider 身份认证服务，用 access token 换取用户信息
type AuthProvider interface {
	UserMe(ctx context.Context, token string) (cloudbase.AuthProfile, error)
}

// IdentityResolver 从请求中解析调用方身份
//
// 依次检查网关注入的请求头、x-cloudbase-context、Bearer token，小程序路径优先
type IdentityResolver struct {
	mapper   *IdentityMapper
	auth     AuthProvider
	profiles *expirable.LRU[string, cloudbase.AuthProfile]
}

// NewIdentityResolver 创建解析器，cacheSize 大于 0 时按 token 缓存认证服务返回的用户信息
func NewIdentityResolver(mapper *IdentityMapper, auth AuthProvider, cacheSize int, cacheTTL time.Duration) *IdentityResolver {
	r := &IdentityResolver{mapper: mapper, auth: auth}
	if cacheSize > 0 {
		r.profiles = expirable.NewLRU[string, cloudbase.AuthProfile](cacheSize, nil, cacheTTL)
	}
	return r
}

// Mapper 身份映射
func (r *IdentityResolver) Mapper() *IdentityMapper {
	return r.mapper
}

// MiniClaim 小程序身份
type MiniClaim struct {
	OpenID  string
	UnionID string
	AppID   string
}

// Resolve 解析请求身份。requireMini 为 true 时只接受小程序身份
func (r *IdentityResolver) Resolve(ctx context.Context, header http.Header, requireMini bool) (*Identity, error) {
	mini := MiniClaimFromHeader(header)
	if mini.OpenID != "" {
		return r.ResolveMini(ctx, mini)
	}
	if requireMini {
		return nil, ErrMiniIdentityRequired
	}

	token := bearerToken(header.Get(HeaderAuthorization))
	if token == "" {
		return nil, ErrMissingIdentity
	}
	return r.ResolveToken(ctx, token)
}

// ResolveMini 映射小程序身份
func (r *IdentityResolver) ResolveMini(ctx context.Context, mini MiniClaim) (*Identity, error) {
	if mini.OpenID == "" {
		return nil, ErrMissingIdentity
	}
	return r.mapper.Resolve(ctx, Claim{
		Provider:    identitylink.ProviderWechatMini,
		ProviderUID: mini.OpenID,
		UnionID:     mini.UnionID,
		AppID:       mini.AppID,
		OpenID:      mini.OpenID,
	})
}

// ResolveToken 通过认证服务换取用户信息后映射身份
func (r *IdentityResolver) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	profile, err := r.authProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	sub := profile.String("sub")
	if sub == "" {
		sub = profile.String("user_id")
	}
	if sub == "" {
		return nil, ErrInvalidAuthProfile
	}

	openid := profile.String("open_id")
	if openid == "" {
		openid = profile.String("openid")
	}
	if openid == "" {
		openid = authOpenIDSubPrefix + sub
	}

	identity, err := r.mapper.Resolve(ctx, Claim{
		Provider:    identitylink.ProviderCloudbaseAuth,
		ProviderUID: sub,
		OpenID:      openid,
	})
	if err != nil {
		return nil, err
	}
	identity.AuthProfile = profile
	return identity, nil
}

func (r *IdentityResolver) authProfile(ctx context.Context, token string) (cloudbase.AuthProfile, error) {
	if r.profiles != nil {
		if p, ok := r.profiles.Get(token); ok {
			return p, nil
		}
	}
	p, err := r.auth.UserMe(ctx, token)
	if err != nil {
		return nil, err
	}
	if r.profiles != nil {
		r.profiles.Add(token, p)
	}
	return p, nil
}

// MiniClaimFromHeader 读取网关注入的小程序身份，请求头缺失时从 x-cloudbase-context 补齐
func MiniClaimFromHeader(header http.Header) MiniClaim {
	c := MiniClaim{
		OpenID:  strings.TrimSpace(header.Get(HeaderOpenID)),
		UnionID: strings.TrimSpace(header.Get(HeaderUnionID)),
		AppID:   strings.TrimSpace(header.Get(HeaderAppID)),
	}

	ctx := decodeCloudbaseContext(header.Get(HeaderCloudbaseCtx))
	if c.OpenID == "" {
		c.OpenID = firstNonEmpty(ctx, "openId", "openid")
	}
	if c.UnionID == "" {
		c.UnionID = firstNonEmpty(ctx, "unionId", "unionid")
	}
	if c.AppID == "" {
		c.AppID = firstNonEmpty(ctx, "appId", "appid")
	}
	return c
}

// decodeCloudbaseContext 解码 base64 JSON，无法解析时返回 nil
func decodeCloudbaseContext(encoded string) map[string]interface{} {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}

func firstNonEmpty(data map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func bearerToken(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(value[len(bearerPrefix):])
}

// unavailableAuth 未配置认证服务时拒绝 Bearer token，按缺少服务端 API Key 处理
type unavailableAuth struct{}

func (unavailableAuth) UserMe(context.Context, string) (cloudbase.AuthProfile, error) {
	return nil, cloudbase.ErrMissingAPIKey
}
