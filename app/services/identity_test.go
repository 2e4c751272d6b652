package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/identitylink"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/database/migrations"
)

func TestIdentityMapperLinked(t *testing.T) {
	ctx := context.Background()

	t.Run("同一身份重复解析返回同一用户", func(t *testing.T) {
		f := newFixture(t, Options{})
		claim := Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "oABC", OpenID: "oABC"}

		first, err := f.svc.Identity.Resolve(ctx, claim)
		require.NoError(t, err)
		second, err := f.svc.Identity.Resolve(ctx, claim)
		require.NoError(t, err)

		assert.Equal(t, ModeIdentity, first.Mode)
		assert.Equal(t, first.UserID, second.UserID)
		assert.EqualValues(t, 1, f.count(t, "app_users"))
		assert.EqualValues(t, 1, f.count(t, "identity_links"))
		assert.EqualValues(t, 1, f.count(t, "users"))

		row := f.userByOpenID(t, "oABC")
		require.NotNil(t, row.UserID)
		assert.Equal(t, first.UserID, *row.UserID)
		assert.Equal(t, "runner", second.Role())
	})

	t.Run("unionid 相同的不同身份合并为同一用户", func(t *testing.T) {
		f := newFixture(t, Options{})

		mini, err := f.svc.Identity.Resolve(ctx, Claim{
			Provider: identitylink.ProviderWechatMini, ProviderUID: "o-mini", UnionID: "u-1", OpenID: "o-mini",
		})
		require.NoError(t, err)
		ios, err := f.svc.Identity.Resolve(ctx, Claim{
			Provider: identitylink.ProviderWechatIOS, ProviderUID: "ios-sub", UnionID: "u-1", OpenID: "ios_ios-sub",
		})
		require.NoError(t, err)

		assert.Equal(t, mini.UserID, ios.UserID)
		assert.EqualValues(t, 1, f.count(t, "app_users"))
		assert.EqualValues(t, 2, f.count(t, "identity_links"))
		assert.EqualValues(t, 2, f.count(t, "identity_links", repositories.Eq("user_id", mini.UserID)))
	})

	t.Run("已有资料行指向其他用户时修正", func(t *testing.T) {
		f := newFixture(t, Options{})
		row := newLegacyUser("o-stale")
		stale := int64(999)
		row.UserID = &stale
		require.NoError(t, f.store.Users.Create(ctx, row))

		identity, err := f.svc.Identity.Resolve(ctx, Claim{
			Provider: identitylink.ProviderWechatMini, ProviderUID: "o-stale", OpenID: "o-stale",
		})
		require.NoError(t, err)
		assert.Equal(t, identity.UserID, *f.userByOpenID(t, "o-stale").UserID)
		assert.NotEqual(t, stale, identity.UserID)
	})

	t.Run("缺少 provider 或 uid", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderWechatMini})
		assert.ErrorIs(t, err, ErrMissingProviderIdentity)
		_, err = f.svc.Identity.Resolve(ctx, Claim{ProviderUID: "x"})
		assert.ErrorIs(t, err, ErrMissingProviderIdentity)
	})
}

func TestIdentityMapperLegacy(t *testing.T) {
	ctx := context.Background()

	t.Run("未迁移数据库走旧版 users 表", func(t *testing.T) {
		f := newFixture(t, Options{}, migrations.LegacyTables()...)

		c, err := f.svc.Identity.Probe(ctx)
		require.NoError(t, err)
		assert.False(t, c.Linked)

		first, err := f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "oABC", OpenID: "oABC"})
		require.NoError(t, err)
		second, err := f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "oABC", OpenID: "oABC"})
		require.NoError(t, err)

		assert.Equal(t, ModeLegacy, first.Mode)
		assert.Equal(t, first.Row.ID, first.UserID)
		assert.Equal(t, first.UserID, second.UserID)
		assert.EqualValues(t, 1, f.count(t, "users"))
	})

	t.Run("运行中发现新版表缺失时降级", func(t *testing.T) {
		f := newFixture(t, Options{})
		c, err := f.svc.Identity.Probe(ctx)
		require.NoError(t, err)
		require.True(t, c.Linked)

		require.NoError(t, f.db.Migrator().DropTable("identity_links"))

		identity, err := f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "o-late", OpenID: "o-late"})
		require.NoError(t, err)
		assert.Equal(t, ModeLegacy, identity.Mode)
		assert.False(t, f.svc.Identity.Capability().Linked)
	})

	t.Run("偶发结构错误不切换身份模式", func(t *testing.T) {
		var faulted bool
		f := newFixtureWith(t, Options{}, func(b repositories.Backend) repositories.Backend {
			return &faultBackend{Backend: b, insertErr: func(table string, row interface{}) error {
				link, ok := row.(*identitylink.IdentityLink)
				if table == "identity_links" && ok && link.ProviderUID == "o-other" && !faulted {
					faulted = true
					return fmt.Errorf("%w: null value in column", repositories.ErrSchemaMissing)
				}
				return nil
			}}
		})
		claim := Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "oABC", OpenID: "oABC"}

		first, err := f.svc.Identity.Resolve(ctx, claim)
		require.NoError(t, err)

		_, err = f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "o-other", OpenID: "o-other"})
		require.ErrorIs(t, err, repositories.ErrSchemaMissing)
		assert.True(t, faulted)
		assert.True(t, f.svc.Identity.Capability().Linked)

		second, err := f.svc.Identity.Resolve(ctx, claim)
		require.NoError(t, err)
		assert.Equal(t, ModeIdentity, second.Mode)
		assert.Equal(t, first.UserID, second.UserID)

		other, err := f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderWechatMini, ProviderUID: "o-other", OpenID: "o-other"})
		require.NoError(t, err)
		assert.Equal(t, ModeIdentity, other.Mode)
		assert.NotEqual(t, first.UserID, other.UserID)
	})

	t.Run("旧版结构无 openid 时失败", func(t *testing.T) {
		f := newFixture(t, Options{}, migrations.LegacyTables()...)
		_, err := f.svc.Identity.Resolve(ctx, Claim{Provider: identitylink.ProviderCloudbaseAuth, ProviderUID: "sub-1"})
		assert.ErrorIs(t, err, ErrMissingProviderIdentity)
	})
}
