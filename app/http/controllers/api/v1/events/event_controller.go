// Package events 赛事、报名与相册
package events

import (
	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/requests"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// EventController 赛事控制器
type EventController struct {
	v1.BaseAPIController
}

// NewEventController 创建赛事控制器
func NewEventController(svc *services.Services) *EventController {
	return &EventController{BaseAPIController: v1.NewBaseAPIController(svc)}
}

// Index 赛事列表
// GET /v1/events?offset=&limit=
func (ctrl *EventController) Index(c *gin.Context) {
	page := services.ParsePage(c.Query("offset"), c.Query("limit"), services.EventsDefaultLimit, services.EventsMaxLimit)
	list, err := ctrl.Services.Events.List(c.Request.Context(), page)
	if err != nil {
		ctrl.Fail(c, err, services.ErrEventsQueryFailed)
		return
	}
	response.Data(c, list)
}

// Show 赛事详情
// GET /v1/events/:id
func (ctrl *EventController) Show(c *gin.Context) {
	id, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	detail, err := ctrl.Services.Events.Detail(c.Request.Context(), id)
	if err != nil {
		ctrl.Fail(c, err, services.ErrEventDetailFailed)
		return
	}
	response.Data(c, detail)
}

// Store 创建赛事
// POST /v1/events
func (ctrl *EventController) Store(c *gin.Context) {
	e, err := requests.ValidateEventCreate(c)
	if err != nil {
		requests.Abort(c, err, "INVALID_PARAMS")
		return
	}
	view, err := ctrl.Services.Events.Create(c.Request.Context(), ctrl.Identity(c), e)
	if err != nil {
		ctrl.Fail(c, err, services.ErrEventSaveFailed)
		return
	}
	response.Created(c, gin.H{"event": view})
}

// Update 更新赛事
// PATCH /v1/events/:id
func (ctrl *EventController) Update(c *gin.Context) {
	id, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	values, err := requests.ValidateEventUpdate(c)
	if err != nil {
		requests.Abort(c, err, "INVALID_PARAMS")
		return
	}
	view, err := ctrl.Services.Events.Update(c.Request.Context(), ctrl.Identity(c), id, values)
	if err != nil {
		ctrl.Fail(c, err, services.ErrEventSaveFailed)
		return
	}
	response.Data(c, gin.H{"event": view})
}
