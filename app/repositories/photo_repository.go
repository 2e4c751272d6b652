package repositories

import (
	"context"
	"fmt"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/photo"
)

// PhotoRepository 相册照片仓库
type PhotoRepository struct {
	backend Backend
}

// NewPhotoRepository 创建仓库实例
func NewPhotoRepository(backend Backend) *PhotoRepository {
	return &PhotoRepository{backend: backend}
}

func (r *PhotoRepository) table() string {
	return photo.Photo{}.TableName()
}

// CountActive 统计赛事的正常照片数
func (r *PhotoRepository) CountActive(ctx context.Context, eventID int64) (int64, error) {
	return r.backend.Count(ctx, r.table(), Eq("event_id", eventID), Eq("status", photo.StatusActive))
}

// ListActive 正常照片分页，按创建时间、ID 倒序保证分页稳定
func (r *PhotoRepository) ListActive(ctx context.Context, eventID int64, offset, limit int) ([]photo.Photo, error) {
	var rows []photo.Photo
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: []Filter{Eq("event_id", eventID), Eq("status", photo.StatusActive)},
		Orders:  []Order{Desc("created_at"), Desc("id")},
		Limit:   limit,
		Offset:  offset,
	}, &rows)
	return rows, err
}

// Find 获取赛事下的照片（含已删除），不存在时返回 ErrNotFound
func (r *PhotoRepository) Find(ctx context.Context, eventID, id int64) (*photo.Photo, error) {
	var rows []photo.Photo
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: []Filter{Eq("id", id), Eq("event_id", eventID)},
		Limit:   1,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("photo %d: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

// FindByID 按 ID 获取照片
func (r *PhotoRepository) FindByID(ctx context.Context, id int64) (*photo.Photo, error) {
	var rows []photo.Photo
	err := r.backend.Find(ctx, r.table(), Query{Filters: []Filter{Eq("id", id)}, Limit: 1}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("photo %d: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

// Create 新增照片
func (r *PhotoRepository) Create(ctx context.Context, p *photo.Photo) error {
	return r.backend.Insert(ctx, r.table(), p)
}

// SetStatus 更新照片状态
func (r *PhotoRepository) SetStatus(ctx context.Context, id int64, status string) error {
	_, err := r.backend.Update(ctx, r.table(), []Filter{Eq("id", id)}, map[string]interface{}{
		"status": status,
	})
	return err
}

// SetDownloadCount 写入下载次数
func (r *PhotoRepository) SetDownloadCount(ctx context.Context, id int64, count int64) error {
	_, err := r.backend.Update(ctx, r.table(), []Filter{Eq("id", id)}, map[string]interface{}{
		"download_count": count,
	})
	return err
}
