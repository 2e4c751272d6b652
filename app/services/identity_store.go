package services

import (
	"context"
	"errors"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/appuser"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/identitylink"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
)

// LinkedIdentityStore 新版结构：app_users + identity_links，并同步维护 users 资料行
type LinkedIdentityStore struct {
	store          *repositories.Store
	userLinkColumn bool
}

// NewLinkedIdentityStore 创建新版结构适配器，userLinkColumn 表示 users 表是否有 user_id 列
func NewLinkedIdentityStore(store *repositories.Store, userLinkColumn bool) *LinkedIdentityStore {
	return &LinkedIdentityStore{store: store, userLinkColumn: userLinkColumn}
}

// Resolve 查找顺序：(provider, provider_uid) 精确匹配，其次 unionid，均无则新建用户主体
func (s *LinkedIdentityStore) Resolve(ctx context.Context, claim Claim) (*Identity, error) {
	links := s.store.IdentityLinks

	link, err := links.FindByProvider(ctx, claim.Provider, claim.ProviderUID)
	if err != nil {
		return nil, err
	}
	if link == nil && claim.UnionID != "" {
		if link, err = links.FindByUnionID(ctx, claim.UnionID); err != nil {
			return nil, err
		}
	}

	var userID int64
	if link != nil {
		userID = link.UserID
	}

	if userID == 0 {
		au := &appuser.AppUser{Status: appuser.StatusActive, Role: user.RoleRunner}
		if err := s.store.AppUsers.Create(ctx, au); err != nil {
			if errors.Is(err, repositories.ErrEmptyResult) {
				return nil, ErrCreateAppUserFailed
			}
			return nil, err
		}
		if au.ID == 0 {
			return nil, ErrCreateAppUserFailed
		}
		userID = au.ID
		if err := links.Create(ctx, newLink(claim, userID)); err != nil {
			return nil, err
		}
	} else if !link.Matches(claim.Provider, claim.ProviderUID) {
		// 通过 unionid 命中的其他身份，为当前身份补一条关联
		if err := links.Create(ctx, newLink(claim, userID)); err != nil {
			return nil, err
		}
	}

	row, err := s.ensureUserRow(ctx, claim.OpenID, userID)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Mode:    ModeIdentity,
		UserID:  userID,
		OpenID:  claim.OpenID,
		UnionID: claim.UnionID,
		AppID:   claim.AppID,
		Row:     row,
	}, nil
}

// ensureUserRow 确保 openid 对应的 users 资料行存在，并指向解析出的用户主体
func (s *LinkedIdentityStore) ensureUserRow(ctx context.Context, openid string, userID int64) (*user.User, error) {
	if openid == "" {
		return nil, nil
	}
	users := s.store.Users

	row, err := users.FindByOpenID(ctx, openid)
	if err != nil {
		return nil, err
	}

	if row != nil {
		if s.userLinkColumn && (row.UserID == nil || *row.UserID != userID) {
			_, err := users.Update(ctx, row.ID, map[string]interface{}{"user_id": userID})
			switch {
			case err == nil:
				row.UserID = &userID
			case !errors.Is(err, repositories.ErrSchemaMissing):
				return nil, err
			}
		}
		return row, nil
	}

	row = newLegacyUser(openid)
	if s.userLinkColumn {
		row.UserID = &userID
	}
	err = users.Create(ctx, row)
	if err != nil && row.UserID != nil && errors.Is(err, repositories.ErrSchemaMissing) {
		row = newLegacyUser(openid)
		err = users.Create(ctx, row)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func newLink(claim Claim, userID int64) *identitylink.IdentityLink {
	return &identitylink.IdentityLink{
		DocOpenID:   claim.OpenID,
		UserID:      userID,
		Provider:    claim.Provider,
		ProviderUID: claim.ProviderUID,
		UnionID:     identitylink.NullableString(claim.UnionID),
		AppID:       identitylink.NullableString(claim.AppID),
	}
}

func newLegacyUser(openid string) *user.User {
	return &user.User{OpenID: openid, DocOpenID: openid, Role: user.RoleRunner}
}

// LegacyIdentityStore 旧版结构：每个 openid 一行 users 记录，角色存于同一行
type LegacyIdentityStore struct {
	store *repositories.Store
}

// NewLegacyIdentityStore 创建旧版结构适配器
func NewLegacyIdentityStore(store *repositories.Store) *LegacyIdentityStore {
	return &LegacyIdentityStore{store: store}
}

// Resolve 按 openid 查找或创建 users 记录，用户 ID 即 users.id
func (s *LegacyIdentityStore) Resolve(ctx context.Context, claim Claim) (*Identity, error) {
	if claim.OpenID == "" {
		return nil, ErrMissingProviderIdentity
	}

	row, err := s.store.Users.FindByOpenID(ctx, claim.OpenID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = newLegacyUser(claim.OpenID)
		if err := s.store.Users.Create(ctx, row); err != nil {
			if errors.Is(err, repositories.ErrEmptyResult) {
				return nil, ErrLegacyUserCreateFailed
			}
			return nil, err
		}
	}

	return &Identity{
		Mode:    ModeLegacy,
		UserID:  row.ID,
		OpenID:  claim.OpenID,
		UnionID: claim.UnionID,
		AppID:   claim.AppID,
		Row:     row,
	}, nil
}
