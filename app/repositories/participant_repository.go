package repositories

import (
	"context"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
)

// ParticipantRepository 报名记录仓库
type ParticipantRepository struct {
	backend Backend
}

// NewParticipantRepository 创建仓库实例
func NewParticipantRepository(backend Backend) *ParticipantRepository {
	return &ParticipantRepository{backend: backend}
}

func (r *ParticipantRepository) table() string {
	return participant.Participant{}.TableName()
}

// FindByUserID 按用户 ID 查找某赛事的报名，未报名时返回 nil
func (r *ParticipantRepository) FindByUserID(ctx context.Context, eventID, userID int64) (*participant.Participant, error) {
	return r.first(ctx, Eq("event_id", eventID), Eq("user_id", userID))
}

// FindByOpenID 按 openid 查找某赛事的报名，未报名时返回 nil
func (r *ParticipantRepository) FindByOpenID(ctx context.Context, eventID int64, openid string) (*participant.Participant, error) {
	return r.first(ctx, Eq("event_id", eventID), Eq("user_openid", openid))
}

func (r *ParticipantRepository) first(ctx context.Context, filters ...Filter) (*participant.Participant, error) {
	var rows []participant.Participant
	if err := r.backend.Find(ctx, r.table(), Query{Filters: filters, Limit: 1}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CountByEvent 统计赛事报名人数
func (r *ParticipantRepository) CountByEvent(ctx context.Context, eventID int64) (int64, error) {
	return r.backend.Count(ctx, r.table(), Eq("event_id", eventID))
}

// ListByEvent 赛事报名列表，最新在前
func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID int64) ([]participant.Participant, error) {
	var rows []participant.Participant
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: []Filter{Eq("event_id", eventID)},
		Orders:  []Order{Desc("created_at")},
	}, &rows)
	return rows, err
}

// ListByEvents 多个赛事的报名记录，用于列表聚合，limit 限制总条数
func (r *ParticipantRepository) ListByEvents(ctx context.Context, eventIDs []int64, limit int) ([]participant.Participant, error) {
	if len(eventIDs) == 0 {
		return []participant.Participant{}, nil
	}
	ids := make([]interface{}, 0, len(eventIDs))
	for _, id := range eventIDs {
		ids = append(ids, id)
	}

	var rows []participant.Participant
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: []Filter{In("event_id", ids...)},
		Orders:  []Order{Desc("created_at")},
		Limit:   limit,
	}, &rows)
	return rows, err
}

// ListByUserID 用户的参赛记录，最新在前
func (r *ParticipantRepository) ListByUserID(ctx context.Context, userID int64) ([]participant.Participant, error) {
	var rows []participant.Participant
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: []Filter{Eq("user_id", userID)},
		Orders:  []Order{Desc("created_at")},
	}, &rows)
	return rows, err
}

// ListByOpenID 按 openid 查询参赛记录，最新在前
func (r *ParticipantRepository) ListByOpenID(ctx context.Context, openid string) ([]participant.Participant, error) {
	var rows []participant.Participant
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: []Filter{Eq("user_openid", openid)},
		Orders:  []Order{Desc("created_at")},
	}, &rows)
	return rows, err
}

// Create 创建报名记录，重复报名返回 ErrDuplicate
func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	return r.backend.Insert(ctx, r.table(), p)
}
