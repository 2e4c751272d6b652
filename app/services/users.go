package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/policies"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// 用户列表分页
const (
	UsersDefaultLimit = 20
	UsersMaxLimit     = 100
)

// UserItem 用户列表项
type UserItem struct {
	ID           int64           `json:"id"`
	Nickname     string          `json:"nickname"`
	AvatarFileID string          `json:"avatar_file_id"`
	Role         string          `json:"role"`
	OpenID       string          `json:"openid"`
	CreatedAt    models.DateTime `json:"created_at"`
}

// UserList 用户列表
type UserList struct {
	Users      []UserItem `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// UserService 用户管理，仅管理员可用
type UserService struct {
	store *repositories.Store
}

// NewUserService 创建用户管理服务
func NewUserService(store *repositories.Store) *UserService {
	return &UserService{store: store}
}

// List 用户列表，search 按昵称子串匹配
func (s *UserService) List(ctx context.Context, identity *Identity, search string, page Page) (*UserList, error) {
	if !policies.CanManageUsers(identity.Actor()) {
		return nil, ErrUsersForbidden
	}
	page = page.Normalize(UsersDefaultLimit, UsersMaxLimit)

	rows, err := s.store.Users.List(ctx, search, page.Offset, page.Limit+1)
	if err != nil {
		return nil, err
	}

	list := &UserList{Users: []UserItem{}, Pagination: newPagination(page, len(rows))}
	for i := range rows {
		if i >= page.Limit {
			break
		}
		list.Users = append(list.Users, toUserItem(&rows[i]))
	}
	return list, nil
}

// UpdateRole 修改用户角色，并尽量同步关联的 app_users 记录
func (s *UserService) UpdateRole(ctx context.Context, identity *Identity, userID int64, role string) (*UserItem, error) {
	if !policies.CanManageUsers(identity.Actor()) {
		return nil, ErrRoleForbidden
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !user.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.store.Users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.store.Users.Update(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}
	existing.Role = role

	if existing.UserID != nil && *existing.UserID != 0 {
		if err := s.store.AppUsers.UpdateRole(ctx, *existing.UserID, role); err != nil {
			logger.Warn("Users", zap.Int64("app_user_id", *existing.UserID), zap.Error(err))
		}
	}

	item := toUserItem(existing)
	return &item, nil
}

func toUserItem(u *user.User) UserItem {
	return UserItem{
		ID:           u.ID,
		Nickname:     u.Nickname,
		AvatarFileID: u.AvatarFileID,
		Role:         u.RoleName(),
		OpenID:       u.OpenID,
		CreatedAt:    u.CreatedAt,
	}
}
