package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
)

// UserRepository 用户资料仓库
type UserRepository struct {
	backend Backend
}

// NewUserRepository 创建仓库实例
func NewUserRepository(backend Backend) *UserRepository {
	return &UserRepository{backend: backend}
}

func (r *UserRepository) table() string {
	return user.User{}.TableName()
}

// FindByOpenID 按 openid 查找，不存在时返回 nil
func (r *UserRepository) FindByOpenID(ctx context.Context, openid string) (*user.User, error) {
	if openid == "" {
		return nil, nil
	}
	return r.first(ctx, Eq("openid", openid))
}

// FindByUserID 按关联的 app_users.id 查找，不存在时返回 nil
func (r *UserRepository) FindByUserID(ctx context.Context, userID int64) (*user.User, error) {
	return r.first(ctx, Eq("user_id", userID))
}

// Find 按主键获取，不存在时返回 ErrNotFound
func (r *UserRepository) Find(ctx context.Context, id int64) (*user.User, error) {
	u, err := r.first(ctx, Eq("id", id))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

func (r *UserRepository) first(ctx context.Context, filters ...Filter) (*user.User, error) {
	var rows []user.User
	if err := r.backend.Find(ctx, r.table(), Query{Filters: filters, Limit: 1}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// List 用户列表，search 按昵称子串匹配，最新注册在前
func (r *UserRepository) List(ctx context.Context, search string, offset, limit int) ([]user.User, error) {
	var filters []Filter
	if search = strings.TrimSpace(search); search != "" {
		filters = append(filters, Contains("nickname", search))
	}

	var rows []user.User
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: filters,
		Orders:  []Order{Desc("created_at"), Desc("id")},
		Limit:   limit,
		Offset:  offset,
	}, &rows)
	return rows, err
}

// Create 创建用户资料
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.backend.Insert(ctx, r.table(), u)
}

// Update 更新用户资料字段，返回影响行数
func (r *UserRepository) Update(ctx context.Context, id int64, values map[string]interface{}) (int64, error) {
	return r.backend.Update(ctx, r.table(), []Filter{Eq("id", id)}, values)
}

// UpdateByOpenID 按 openid 更新用户资料字段，返回影响行数
func (r *UserRepository) UpdateByOpenID(ctx context.Context, openid string, values map[string]interface{}) (int64, error) {
	return r.backend.Update(ctx, r.table(), []Filter{Eq("openid", openid)}, values)
}
