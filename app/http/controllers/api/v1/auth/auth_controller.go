// Package auth 登录与身份解析
package auth

import (
	"errors"

	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/requests"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthController 登录控制器
type AuthController struct {
	v1.BaseAPIController
}

// NewAuthController 创建登录控制器
func NewAuthController(svc *services.Services) *AuthController {
	return &AuthController{BaseAPIController: v1.NewBaseAPIController(svc)}
}

// ResolveMini 解析小程序身份
// POST /v1/auth/mini/resolve
func (ctrl *AuthController) ResolveMini(c *gin.Context) {
	identity, err := ctrl.Services.Resolver.Resolve(c.Request.Context(), c.Request.Header, true)
	if err != nil {
		if errors.Is(err, cloudbase.ErrMissingAPIKey) {
			ctrl.Fail(c, err, services.ErrMiniIdentityFailed)
			return
		}
		response.Fail(c, services.ErrMiniIdentityFailed.WithDetail(err.Error()))
		return
	}

	var userID interface{}
	if identity.UserID > 0 {
		userID = identity.UserID
	}
	response.Data(c, gin.H{
		"user_id":       userID,
		"openid":        identity.OpenID,
		"unionid":       identity.UnionID,
		"profile":       identity.Row.Profile(),
		"identity_mode": identity.Mode,
	})
}

// IOSWechatSignin iOS 微信登录
// POST /v1/auth/ios/wechat/signin
func (ctrl *AuthController) IOSWechatSignin(c *gin.Context) {
	if ctrl.Services.Auth == nil {
		response.Fail(c, services.ErrMissingAPIKey)
		return
	}

	in, err := requests.ValidateIOSSignin(c)
	if err != nil {
		requests.Abort(c, err, "INVALID_PARAMS")
		return
	}

	result, err := ctrl.Services.Auth.IOSWechatSignin(c.Request.Context(), in)
	if err != nil {
		ctrl.Fail(c, err, services.ErrIOSSigninError)
		return
	}
	response.Data(c, result)
}
