package repositories

import (
	"context"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/appuser"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/identitylink"
)

// AppUserRepository 用户主体仓库
type AppUserRepository struct {
	backend Backend
}

// NewAppUserRepository 创建仓库实例
func NewAppUserRepository(backend Backend) *AppUserRepository {
	return &AppUserRepository{backend: backend}
}

// Create 创建用户主体，写入后回填 ID
func (r *AppUserRepository) Create(ctx context.Context, u *appuser.AppUser) error {
	return r.backend.Insert(ctx, u.TableName(), u)
}

// UpdateRole 更新主体角色
func (r *AppUserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	_, err := r.backend.Update(ctx, appuser.AppUser{}.TableName(), []Filter{Eq("id", id)}, map[string]interface{}{
		"role": role,
	})
	return err
}

// IdentityLinkRepository 身份关联仓库
type IdentityLinkRepository struct {
	backend Backend
}

// NewIdentityLinkRepository 创建仓库实例
func NewIdentityLinkRepository(backend Backend) *IdentityLinkRepository {
	return &IdentityLinkRepository{backend: backend}
}

func (r *IdentityLinkRepository) table() string {
	return identitylink.IdentityLink{}.TableName()
}

// FindByProvider 按 (provider, provider_uid) 精确查找，不存在时返回 nil
func (r *IdentityLinkRepository) FindByProvider(ctx context.Context, provider, providerUID string) (*identitylink.IdentityLink, error) {
	return r.first(ctx, Eq("provider", provider), Eq("provider_uid", providerUID))
}

// FindByUnionID 按 unionid 查找任意一条关联，不存在时返回 nil
func (r *IdentityLinkRepository) FindByUnionID(ctx context.Context, unionid string) (*identitylink.IdentityLink, error) {
	if unionid == "" {
		return nil, nil
	}
	return r.first(ctx, Eq("unionid", unionid))
}

func (r *IdentityLinkRepository) first(ctx context.Context, filters ...Filter) (*identitylink.IdentityLink, error) {
	var rows []identitylink.IdentityLink
	err := r.backend.Find(ctx, r.table(), Query{
		Filters: filters,
		Orders:  []Order{Asc("id")},
		Limit:   1,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Create 创建身份关联
func (r *IdentityLinkRepository) Create(ctx context.Context, link *identitylink.IdentityLink) error {
	return r.backend.Insert(ctx, r.table(), link)
}
