// Package users 用户管理
package users

import (
	"strings"

	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/policies"
	"github.com/boshenzh/werox-wechat-mini-program/app/requests"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// UsersController 用户管理控制器
type UsersController struct {
	v1.BaseAPIController
}

// NewUsersController 创建用户管理控制器
func NewUsersController(svc *services.Services) *UsersController {
	return &UsersController{BaseAPIController: v1.NewBaseAPIController(svc)}
}

// Index 用户列表，仅管理员
// GET /v1/users?search=&offset=&limit=
func (ctrl *UsersController) Index(c *gin.Context) {
	page := services.ParsePage(c.Query("offset"), c.Query("limit"), services.UsersDefaultLimit, services.UsersMaxLimit)
	list, err := ctrl.Services.Users.List(c.Request.Context(), ctrl.Identity(c), strings.TrimSpace(c.Query("search")), page)
	if err != nil {
		ctrl.Fail(c, err, services.ErrUsersListFailed)
		return
	}
	response.Data(c, list)
}

// UpdateRole 修改用户角色，仅管理员
// PATCH /v1/users/:id/role
func (ctrl *UsersController) UpdateRole(c *gin.Context) {
	if !policies.CanManageUsers(ctrl.Identity(c).Actor()) {
		response.Fail(c, services.ErrRoleForbidden)
		return
	}
	userID, ok := ctrl.ParamID(c, "id", services.ErrInvalidUserID)
	if !ok {
		return
	}
	req, err := requests.ValidateRoleUpdate(c)
	if err != nil {
		requests.Abort(c, err, services.ErrInvalidRole.Code)
		return
	}
	item, err := ctrl.Services.Users.UpdateRole(c.Request.Context(), ctrl.Identity(c), userID, req.Role)
	if err != nil {
		ctrl.Fail(c, err, services.ErrUserRoleUpdateFailed)
		return
	}
	response.Data(c, gin.H{"user": item})
}

// ShowByOpenID 按 openid 查询资料与参赛记录
// GET /v1/users/by-openid/:openid
func (ctrl *UsersController) ShowByOpenID(c *gin.Context) {
	openid := strings.TrimSpace(c.Param("openid"))
	if openid == "" {
		response.Fail(c, services.ErrInvalidOpenID)
		return
	}
	profile, err := ctrl.Services.Profiles.ByOpenID(c.Request.Context(), openid)
	if err != nil {
		ctrl.Fail(c, err, services.ErrUserQueryFailed)
		return
	}
	response.Data(c, profile)
}
