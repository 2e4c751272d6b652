package services

import (
	"context"
	"strings"

	"github.com/spf13/cast"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/identitylink"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
)

// AuthClient 身份认证服务的第三方登录接口
type AuthClient interface {
	AuthProvider
	ProviderID() string
	ProviderToken(ctx context.Context, req cloudbase.ProviderTokenRequest, deviceID string) (*cloudbase.ProviderGrant, error)
	SignInWithProvider(ctx context.Context, req cloudbase.SignInRequest, deviceID string) (map[string]interface{}, error)
}

// IOSSigninInput iOS 微信登录参数
type IOSSigninInput struct {
	ProviderID          string
	DeviceID            string
	ProviderToken       string
	ProviderCode        string
	ProviderRedirectURI string
	ProviderUID         string
	UnionID             string
	OpenID              string
	ForceDisableSignUp  bool
	SyncProfile         *bool
}

// SigninResult 登录结果
type SigninResult struct {
	Token        map[string]interface{} `json:"token"`
	UserID       int64                  `json:"user_id"`
	Profile      *user.User             `json:"profile"`
	IdentityMode string                 `json:"identity_mode"`
}

// AuthService iOS 登录
type AuthService struct {
	client AuthClient
	mapper *IdentityMapper
}

// NewAuthService 创建登录服务
func NewAuthService(client AuthClient, mapper *IdentityMapper) *AuthService {
	return &AuthService{client: client, mapper: mapper}
}

// IOSWechatSignin 授权码换取 provider_token 后登录，再把登录身份映射为用户
func (s *AuthService) IOSWechatSignin(ctx context.Context, in IOSSigninInput) (*SigninResult, error) {
	providerID := strings.TrimSpace(in.ProviderID)
	if providerID == "" {
		providerID = s.client.ProviderID()
	}
	deviceID := strings.TrimSpace(in.DeviceID)
	if deviceID == "" {
		deviceID = cloudbase.NewDeviceID("ios")
	}

	providerToken := strings.TrimSpace(in.ProviderToken)
	var providerProfile map[string]interface{}
	if providerToken == "" {
		if strings.TrimSpace(in.ProviderCode) == "" {
			return nil, ErrMissingSigninCode
		}
		grant, err := s.client.ProviderToken(ctx, cloudbase.ProviderTokenRequest{
			ProviderID:          providerID,
			ProviderCode:        in.ProviderCode,
			ProviderRedirectURI: in.ProviderRedirectURI,
		}, deviceID)
		if err != nil {
			return nil, err
		}
		providerToken, providerProfile = grant.ProviderToken, grant.ProviderProfile
		if providerToken == "" {
			return nil, ErrProviderTokenFailed
		}
	}

	syncProfile := in.SyncProfile == nil || *in.SyncProfile
	token, err := s.client.SignInWithProvider(ctx, cloudbase.SignInRequest{
		ProviderID:         providerID,
		ProviderToken:      providerToken,
		ForceDisableSignUp: in.ForceDisableSignUp,
		SyncProfile:        syncProfile,
	}, deviceID)
	if err != nil {
		return nil, err
	}
	accessToken := cast.ToString(token["access_token"])
	if accessToken == "" {
		return nil, ErrIOSSigninFailed
	}

	profile, err := s.client.UserMe(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	providerUID := firstString(in.ProviderUID, mapString(providerProfile, "sub"), profile.String("open_id"), profile.String("sub"))
	if providerUID == "" {
		return nil, ErrIdentityIncomplete
	}
	meta, _ := providerProfile["meta"].(map[string]interface{})
	unionid := firstString(in.UnionID, mapString(providerProfile, "unionid"), mapString(meta, "unionid"))
	openid := firstString(in.OpenID, profile.String("open_id"), "ios_"+providerUID)

	identity, err := s.mapper.Resolve(ctx, Claim{
		Provider:    identitylink.ProviderWechatIOS,
		ProviderUID: providerUID,
		UnionID:     unionid,
		OpenID:      openid,
	})
	if err != nil {
		return nil, err
	}

	return &SigninResult{
		Token:        token,
		UserID:       identity.UserID,
		Profile:      identity.Row.Profile(),
		IdentityMode: identity.Mode,
	}, nil
}

func mapString(m map[string]interface{}, key string) string {
	if m == nil || m[key] == nil {
		return ""
	}
	return cast.ToString(m[key])
}

func firstString(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
