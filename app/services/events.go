package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cast"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/station"
	"github.com/boshenzh/werox-wechat-mini-program/app/policies"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// 赛事列表分页
const (
	EventsDefaultLimit = 50
	EventsMaxLimit     = 100

	// listParticipantsCap 列表聚合报名数据时最多读取的报名记录数
	listParticipantsCap = 500
	// listAvatarCount 每个赛事展示的报名头像数
	listAvatarCount = 3
)

// EventView 赛事及推导出的状态与组别
type EventView struct {
	event.Event
	Divisions  models.StringList `json:"divisions"`
	StatusInfo event.StatusInfo  `json:"status_info"`
}

// EventSummary 列表项，附带报名人数与头像
type EventSummary struct {
	EventView
	ParticipantCount         int      `json:"participant_count"`
	ParticipantAvatarFileIDs []string `json:"participant_avatar_file_ids"`
}

// EventList 赛事列表
type EventList struct {
	Events     []EventSummary `json:"events"`
	Pagination struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
		Count  int `json:"count"`
	} `json:"pagination"`
}

// EventDetail 赛事详情
type EventDetail struct {
	Event        EventView                 `json:"event"`
	Stations     []station.Station         `json:"stations"`
	Participants []participant.Participant `json:"participants"`
}

// EventService 赛事查询与管理
type EventService struct {
	store *repositories.Store
	clock clock.Clock
}

// NewEventService 创建赛事服务
func NewEventService(store *repositories.Store, clk clock.Clock) *EventService {
	return &EventService{store: store, clock: clk}
}

// View 组装赛事视图
func (s *EventService) View(e event.Event) EventView {
	return EventView{
		Event:      e,
		Divisions:  e.DivisionList(),
		StatusInfo: e.StatusAt(s.clock.Now()),
	}
}

// List 按赛事日期升序列出，报名数据查询失败时按无人报名处理
func (s *EventService) List(ctx context.Context, page Page) (*EventList, error) {
	page = page.Normalize(EventsDefaultLimit, EventsMaxLimit)

	events, err := s.store.Events.List(ctx, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(events))
	for _, e := range events {
		if e.ID != 0 {
			ids = append(ids, e.ID)
		}
	}
	rows, err := s.store.Participants.ListByEvents(ctx, ids, listParticipantsCap)
	if err != nil {
		logger.WarnString("Events", "Participants", err.Error())
		rows = nil
	}

	counts := map[int64]int{}
	avatars := map[int64][]string{}
	for _, p := range rows {
		counts[p.EventID]++
		a := p.UserAvatarFileID
		if a != "" && len(avatars[p.EventID]) < listAvatarCount && !containsString(avatars[p.EventID], a) {
			avatars[p.EventID] = append(avatars[p.EventID], a)
		}
	}

	list := &EventList{Events: make([]EventSummary, 0, len(events))}
	for _, e := range events {
		avatarIDs := avatars[e.ID]
		if avatarIDs == nil {
			avatarIDs = []string{}
		}
		list.Events = append(list.Events, EventSummary{
			EventView:                s.View(e),
			ParticipantCount:         counts[e.ID],
			ParticipantAvatarFileIDs: avatarIDs,
		})
	}
	list.Pagination.Offset = page.Offset
	list.Pagination.Limit = page.Limit
	list.Pagination.Count = len(list.Events)
	return list, nil
}

// Detail 赛事详情。站点与报名列表查询失败时返回空列表
func (s *EventService) Detail(ctx context.Context, id int64) (*EventDetail, error) {
	e, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	stations, err := s.store.Stations.ListByEvent(ctx, id)
	if err != nil || stations == nil {
		logger.LogWarnIf(err)
		stations = []station.Station{}
	}
	participants, err := s.store.Participants.ListByEvent(ctx, id)
	if err != nil || participants == nil {
		logger.LogWarnIf(err)
		participants = []participant.Participant{}
	}

	return &EventDetail{Event: s.View(*e), Stations: stations, Participants: participants}, nil
}

// Create 创建赛事，仅组织者与管理员可操作
func (s *EventService) Create(ctx context.Context, identity *Identity, e *event.Event) (*EventView, error) {
	if !policies.CanManageEvents(identity.Actor()) {
		return nil, ErrEventsForbidden
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return nil, ErrTitleRequired
	}
	e.ID = 0
	e.CreatedBy = identity.OpenID
	if e.Divisions == nil {
		e.Divisions = models.StringList{}
	}
	if err := s.store.Events.Create(ctx, e); err != nil {
		return nil, err
	}
	view := s.View(*e)
	return &view, nil
}

// Update 更新赛事字段，仅组织者与管理员可操作
func (s *EventService) Update(ctx context.Context, identity *Identity, id int64, values map[string]interface{}) (*EventView, error) {
	if !policies.CanManageEvents(identity.Actor()) {
		return nil, ErrEventsForbidden
	}
	if title, ok := values["title"]; ok && strings.TrimSpace(cast.ToString(title)) == "" {
		return nil, ErrTitleRequired
	}
	delete(values, "id")
	delete(values, "created_by")
	if len(values) == 0 {
		return nil, ErrInvalidParams
	}

	if err := s.store.Events.Update(ctx, id, values); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	e, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.View(*e)
	return &view, nil
}

func (s *EventService) find(ctx context.Context, id int64) (*event.Event, error) {
	e, err := s.store.Events.Find(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// ParseID 解析路径中的数字 ID
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
