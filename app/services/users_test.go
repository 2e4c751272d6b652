package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/appuser"
)

func TestUserServiceList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	runner := f.miniIdentity(t, "o-runner")
	admin := f.withRole(t, f.miniIdentity(t, "o-admin"), "admin")

	for _, nick := range []string{"alpha", "beta", "alphabet"} {
		u := f.miniIdentity(t, "o-"+nick)
		_, err := f.store.Users.Update(ctx, u.Row.ID, map[string]interface{}{"nickname": nick})
		require.NoError(t, err)
	}

	_, err := f.svc.Users.List(ctx, runner, "", Page{})
	assert.ErrorIs(t, err, ErrUsersForbidden)

	organizer := f.withRole(t, runner, "organizer")
	_, err = f.svc.Users.List(ctx, organizer, "", Page{})
	assert.ErrorIs(t, err, ErrUsersForbidden)

	list, err := f.svc.Users.List(ctx, admin, "alpha", Page{})
	require.NoError(t, err)
	assert.Len(t, list.Users, 2)
	assert.False(t, list.Pagination.HasMore)
	assert.Equal(t, UsersDefaultLimit, list.Pagination.Limit)

	list, err = f.svc.Users.List(ctx, admin, "", Page{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Users, 2)
	assert.True(t, list.Pagination.HasMore)

	list, err = f.svc.Users.List(ctx, admin, "", Page{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, UsersMaxLimit, list.Pagination.Limit)
	assert.Len(t, list.Users, 5)
}

func TestUserServiceUpdateRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	target := f.miniIdentity(t, "o-target")
	admin := f.withRole(t, f.miniIdentity(t, "o-root"), "admin")

	_, err := f.svc.Users.UpdateRole(ctx, target, admin.Row.ID, "runner")
	assert.ErrorIs(t, err, ErrRoleForbidden)

	_, err = f.svc.Users.UpdateRole(ctx, admin, target.Row.ID, "king")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = f.svc.Users.UpdateRole(ctx, admin, 9999, "coach")
	assert.ErrorIs(t, err, ErrUserNotFound)

	item, err := f.svc.Users.UpdateRole(ctx, admin, target.Row.ID, " Coach ")
	require.NoError(t, err)
	assert.Equal(t, "coach", item.Role)
	assert.Equal(t, "coach", f.userByOpenID(t, "o-target").Role)

	var app appuser.AppUser
	require.NoError(t, f.db.First(&app, target.UserID).Error)
	assert.Equal(t, "coach", app.Role)
}
