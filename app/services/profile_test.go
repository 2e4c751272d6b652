package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
)

func strPtr(s string) *string {
	return &s
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("nickname", "abc"))
	assert.Equal(t, 64, len([]rune(Truncate("nickname", strings.Repeat("赛", 80)))))
	assert.Equal(t, strings.Repeat("x", 2000), Truncate("unknown", strings.Repeat("x", 2000)))
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("标签数组与逗号分隔字符串等价", func(t *testing.T) {
		for _, tags := range []interface{}{[]interface{}{"A", "B"}, "A,B", "A，B", `["A","B"]`} {
			f := newFixture(t, Options{})
			me := f.miniIdentity(t, "o-tags")

			p, err := f.svc.Profiles.UpdateProfile(ctx, me, ProfilePatch{Tags: tags, HasTags: true})
			require.NoError(t, err)
			assert.Equal(t, models.StringList{"A", "B"}, p.Tags)

			stored := f.userByOpenID(t, "o-tags")
			assert.Equal(t, models.StringList{"A", "B"}, stored.Tags)
		}
	})

	t.Run("未提交字段保持原值", func(t *testing.T) {
		f := newFixture(t, Options{})
		me := f.miniIdentity(t, "o-keep")

		_, err := f.svc.Profiles.UpdateProfile(ctx, me, ProfilePatch{
			Nickname:     strPtr("  Runner  "),
			Bio:          strPtr("hello"),
			BirthYear:    "1995",
			HasBirthYear: true,
		})
		require.NoError(t, err)

		me.Row = f.userByOpenID(t, "o-keep")
		p, err := f.svc.Profiles.UpdateProfile(ctx, me, ProfilePatch{MBTI: strPtr("INTJ")})
		require.NoError(t, err)
		assert.Equal(t, "Runner", p.Nickname)
		assert.Equal(t, "hello", p.Bio)
		assert.Equal(t, "INTJ", p.MBTI)
		require.NotNil(t, p.BirthYear)
		assert.Equal(t, 1995, *p.BirthYear)

		p, err = f.svc.Profiles.UpdateProfile(ctx, me, ProfilePatch{BirthYear: nil, HasBirthYear: true})
		require.NoError(t, err)
		assert.Nil(t, p.BirthYear)
	})

	t.Run("出生年份格式错误", func(t *testing.T) {
		f := newFixture(t, Options{})
		me := f.miniIdentity(t, "o-year")
		_, err := f.svc.Profiles.UpdateProfile(ctx, me, ProfilePatch{BirthYear: "nineteen", HasBirthYear: true})
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("资料行不存在", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.svc.Profiles.UpdateProfile(ctx, &Identity{OpenID: "o-none"}, ProfilePatch{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestProfileMe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	me := f.miniIdentity(t, "o-me")

	info, err := f.svc.Profiles.Me(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, "o-me", info.OpenID)
	assert.Equal(t, ModeIdentity, info.IdentityMode)
	assert.Equal(t, "runner", info.Profile.Role)
	assert.Empty(t, info.AttendanceRecords)
	assert.Equal(t, participant.Scores{}, info.Scores)

	e1 := f.createEvent(t, event.Event{Title: "One", BaseStrength: 6, BaseEndurance: 7})
	e2 := f.createEvent(t, event.Event{Title: "Two", BaseStrength: 7, BaseEndurance: 8})
	for _, e := range []*event.Event{e1, e2} {
		_, err := f.svc.Registrations.Create(ctx, me, e.ID, RegistrationInput{Division: "Open"})
		require.NoError(t, err)
	}

	info, err = f.svc.Profiles.Me(ctx, me)
	require.NoError(t, err)
	assert.Len(t, info.AttendanceRecords, 2)
	assert.Equal(t, models.Float(6.5), info.Scores.Strength)
	assert.Equal(t, models.Float(7.5), info.Scores.Endurance)
	assert.Equal(t, "runner", f.svc.Profiles.Role(me))
}

func TestProfileByOpenID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	f.miniIdentity(t, "o-public")

	_, err := f.svc.Profiles.ByOpenID(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidOpenID)

	missing, err := f.svc.Profiles.ByOpenID(ctx, "o-ghost")
	require.NoError(t, err)
	assert.Nil(t, missing.Profile)
	assert.Empty(t, missing.AttendanceRecords)

	found, err := f.svc.Profiles.ByOpenID(ctx, "o-public")
	require.NoError(t, err)
	require.NotNil(t, found.Profile)
	assert.Equal(t, "o-public", found.Profile.OpenID)
	assert.Empty(t, found.Profile.DocOpenID)
}
