package repositories

import (
	"context"
	"fmt"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/station"
)

// EventRepository 赛事仓库
type EventRepository struct {
	backend Backend
}

// NewEventRepository 创建仓库实例
func NewEventRepository(backend Backend) *EventRepository {
	return &EventRepository{backend: backend}
}

// List 按赛事日期升序分页
func (r *EventRepository) List(ctx context.Context, offset, limit int) ([]event.Event, error) {
	var events []event.Event
	err := r.backend.Find(ctx, event.Event{}.TableName(), Query{
		Orders: []Order{Asc("event_date")},
		Limit:  limit,
		Offset: offset,
	}, &events)
	return events, err
}

// Find 按 ID 获取，不存在时返回 ErrNotFound
func (r *EventRepository) Find(ctx context.Context, id int64) (*event.Event, error) {
	var events []event.Event
	err := r.backend.Find(ctx, event.Event{}.TableName(), Query{
		Filters: []Filter{Eq("id", id)},
		Limit:   1,
	}, &events)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return &events[0], nil
}

// Create 创建赛事
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	return r.backend.Insert(ctx, e.TableName(), e)
}

// Update 更新赛事字段
func (r *EventRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	n, err := r.backend.Update(ctx, event.Event{}.TableName(), []Filter{Eq("id", id)}, values)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}

// StationRepository 赛事站点仓库
type StationRepository struct {
	backend Backend
}

// NewStationRepository 创建仓库实例
func NewStationRepository(backend Backend) *StationRepository {
	return &StationRepository{backend: backend}
}

// ListByEvent 按站点顺序列出
func (r *StationRepository) ListByEvent(ctx context.Context, eventID int64) ([]station.Station, error) {
	var stations []station.Station
	err := r.backend.Find(ctx, station.Station{}.TableName(), Query{
		Filters: []Filter{Eq("event_id", eventID)},
		Orders:  []Order{Asc("station_order")},
	}, &stations)
	return stations, err
}

// Create 创建站点
func (r *StationRepository) Create(ctx context.Context, s *station.Station) error {
	return r.backend.Insert(ctx, s.TableName(), s)
}
