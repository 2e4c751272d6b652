package events

import (
	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/requests"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// RegistrationController 报名控制器
type RegistrationController struct {
	v1.BaseAPIController
}

// NewRegistrationController 创建报名控制器
func NewRegistrationController(svc *services.Services) *RegistrationController {
	return &RegistrationController{BaseAPIController: v1.NewBaseAPIController(svc)}
}

// Mine 当前身份的报名状态
// GET /v1/events/:id/registration/me
func (ctrl *RegistrationController) Mine(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	status, err := ctrl.Services.Registrations.Mine(c.Request.Context(), ctrl.Identity(c), eventID)
	if err != nil {
		ctrl.Fail(c, err, services.ErrRegistrationCheck)
		return
	}
	response.Data(c, status)
}

// Store 报名
// POST /v1/events/:id/registrations
func (ctrl *RegistrationController) Store(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	in, err := requests.ValidateRegistration(c)
	if err != nil {
		requests.Abort(c, err, services.ErrDivisionRequired.Code)
		return
	}
	registration, err := ctrl.Services.Registrations.Create(c.Request.Context(), ctrl.Identity(c), eventID, in)
	if err != nil {
		ctrl.Fail(c, err, services.ErrRegistrationCreate)
		return
	}
	response.Data(c, gin.H{"registration": registration})
}
