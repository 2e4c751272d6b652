// Package v1 处理业务逻辑, v1 版本的控制器
package v1

import (
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/app/http/middlewares"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/app"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/apperr"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// BaseAPIController 基础控制器，所有 v1 控制器嵌入它
type BaseAPIController struct {
	Services *services.Services
}

// NewBaseAPIController 创建基础控制器
func NewBaseAPIController(svc *services.Services) BaseAPIController {
	return BaseAPIController{Services: svc}
}

// Identity 当前请求的调用方身份
func (ctrl *BaseAPIController) Identity(c *gin.Context) *services.Identity {
	return middlewares.CurrentIdentity(c)
}

// ParamID 解析路径中的正整数 ID，不合法时以 invalid 响应
func (ctrl *BaseAPIController) ParamID(c *gin.Context, name string, invalid *apperr.Error) (int64, bool) {
	id, ok := services.ParseID(c.Param(name))
	if !ok {
		response.Fail(c, invalid)
		return 0, false
	}
	return id, true
}

// EventID 解析 :id 路径参数
func (ctrl *BaseAPIController) EventID(c *gin.Context) (int64, bool) {
	return ctrl.ParamID(c, "id", services.ErrInvalidEventID)
}

// Fail 将服务层错误转换为业务错误后响应
func (ctrl *BaseAPIController) Fail(c *gin.Context, err error, fallback *apperr.Error) {
	response.Fail(c, services.Classify(err, fallback))
}

// Health 健康检查
func Health(c *gin.Context) {
	response.Data(c, gin.H{
		"service":     app.ServiceName,
		"env":         config.GetString("cloudbase.env_id"),
		"has_api_key": config.GetString("cloudbase.api_key") != "",
		"ts":          time.Now().UnixMilli(),
	})
}
