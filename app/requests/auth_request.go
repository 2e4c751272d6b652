package requests

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/services"

	"github.com/gin-gonic/gin"
)

// IOSSigninRequest iOS 微信登录请求
type IOSSigninRequest struct {
	ProviderID          string `json:"provider_id"`
	DeviceID            string `json:"device_id"`
	ProviderToken       string `json:"provider_token"`
	ProviderCode        string `json:"provider_code"`
	ProviderRedirectURI string `json:"provider_redirect_uri"`
	ProviderUID         string `json:"provider_uid"`
	UnionID             string `json:"unionid"`
	OpenID              string `json:"openid"`
	ForceDisableSignUp  bool   `json:"force_disable_sign_up"`
	SyncProfile         *bool  `json:"sync_profile"`
}

// ValidateIOSSignin 解析 iOS 登录请求，provider_token 与 provider_code 至少一项由服务层校验
func ValidateIOSSignin(c *gin.Context) (services.IOSSigninInput, error) {
	var req IOSSigninRequest
	if err := BindJSON(c, &req); err != nil {
		return services.IOSSigninInput{}, err
	}
	return services.IOSSigninInput{
		ProviderID:          req.ProviderID,
		DeviceID:            req.DeviceID,
		ProviderToken:       req.ProviderToken,
		ProviderCode:        req.ProviderCode,
		ProviderRedirectURI: req.ProviderRedirectURI,
		ProviderUID:         req.ProviderUID,
		UnionID:             req.UnionID,
		OpenID:              req.OpenID,
		ForceDisableSignUp:  req.ForceDisableSignUp,
		SyncProfile:         req.SyncProfile,
	}, nil
}
