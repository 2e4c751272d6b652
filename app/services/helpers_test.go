package services

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories/repotest"
)

type fixture struct {
	svc   *Services
	store *repositories.Store
	db    *gorm.DB
	clock *clock.Mock
}

func newFixture(t *testing.T, opts Options, tables ...interface{}) *fixture {
	t.Helper()
	return newFixtureWith(t, opts, nil, tables...)
}

// newFixtureWith wrap 非空时用它包装存储后端
func newFixtureWith(t *testing.T, opts Options, wrap func(repositories.Backend) repositories.Backend, tables ...interface{}) *fixture {
	t.Helper()
	store, db := repotest.NewStore(t, tables...)
	if wrap != nil {
		store = repositories.NewStore(wrap(store.Backend))
	}

	mock := clock.NewMock()
	mock.Set(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	opts.Clock = mock

	return &fixture{svc: New(store, opts), store: store, db: db, clock: mock}
}

// miniIdentity 以小程序身份登录
func (f *fixture) miniIdentity(t *testing.T, openid string) *Identity {
	t.Helper()
	identity, err := f.svc.Resolver.ResolveMini(context.Background(), MiniClaim{OpenID: openid})
	require.NoError(t, err)
	return identity
}

// withRole 修改身份对应资料行的角色
func (f *fixture) withRole(t *testing.T, identity *Identity, role string) *Identity {
	t.Helper()
	_, err := f.store.Users.Update(context.Background(), identity.Row.ID, map[string]interface{}{"role": role})
	require.NoError(t, err)
	identity.Row.Role = role
	return identity
}

func (f *fixture) createEvent(t *testing.T, e event.Event) *event.Event {
	t.Helper()
	if e.Divisions == nil {
		e.Divisions = models.StringList{}
	}
	require.NoError(t, f.store.Events.Create(context.Background(), &e))
	require.NotZero(t, e.ID)
	return &e
}

func (f *fixture) count(t *testing.T, table string, filters ...repositories.Filter) int64 {
	t.Helper()
	n, err := f.store.Backend.Count(context.Background(), table, filters...)
	require.NoError(t, err)
	return n
}

func (f *fixture) userByOpenID(t *testing.T, openid string) *user.User {
	t.Helper()
	u, err := f.store.Users.FindByOpenID(context.Background(), openid)
	require.NoError(t, err)
	return u
}

// faultBackend 按条件注入写入错误或隐藏查询结果
type faultBackend struct {
	repositories.Backend
	insertErr func(table string, row interface{}) error
	hideFind  func(table string, q repositories.Query) bool
}

func (b *faultBackend) Insert(ctx context.Context, table string, row interface{}) error {
	if b.insertErr != nil {
		if err := b.insertErr(table, row); err != nil {
			return err
		}
	}
	return b.Backend.Insert(ctx, table, row)
}

func (b *faultBackend) Find(ctx context.Context, table string, q repositories.Query, dest interface{}) error {
	if b.hideFind != nil && b.hideFind(table, q) {
		return nil
	}
	return b.Backend.Find(ctx, table, q, dest)
}

// hasFilter 查询是否包含指定列的过滤条件
func hasFilter(q repositories.Query, column string) bool {
	for _, f := range q.Filters {
		if f.Column == column {
			return true
		}
	}
	return false
}
