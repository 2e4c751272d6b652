// Package me 当前用户
package me

import (
	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/requests"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// MeController 当前用户控制器
type MeController struct {
	v1.BaseAPIController
}

// NewMeController 创建当前用户控制器
func NewMeController(svc *services.Services) *MeController {
	return &MeController{BaseAPIController: v1.NewBaseAPIController(svc)}
}

// Show 个人信息、参赛记录与能力评分
// GET /v1/me
func (ctrl *MeController) Show(c *gin.Context) {
	me, err := ctrl.Services.Profiles.Me(c.Request.Context(), ctrl.Identity(c))
	if err != nil {
		ctrl.Fail(c, err, services.ErrMeQueryFailed)
		return
	}
	response.Data(c, me)
}

// Role 当前角色
// GET /v1/me/role
func (ctrl *MeController) Role(c *gin.Context) {
	response.Data(c, gin.H{"role": ctrl.Services.Profiles.Role(ctrl.Identity(c))})
}

// UpdateProfile 局部更新资料
// PATCH /v1/me/profile
func (ctrl *MeController) UpdateProfile(c *gin.Context) {
	patch, err := requests.ValidateProfilePatch(c)
	if err != nil {
		requests.Abort(c, err, "INVALID_PARAMS")
		return
	}
	profile, err := ctrl.Services.Profiles.UpdateProfile(c.Request.Context(), ctrl.Identity(c), patch)
	if err != nil {
		ctrl.Fail(c, err, services.ErrProfileUpdateFailed)
		return
	}
	response.Data(c, gin.H{"profile": profile})
}
