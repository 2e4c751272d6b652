package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
)

func TestRegistrationCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("名额为 1 的赛事", func(t *testing.T) {
		f := newFixture(t, Options{})
		e := f.createEvent(t, event.Event{
			Title:           "Spring",
			EventDate:       "2026-06-01",
			Divisions:       models.StringList{"Open"},
			MaxParticipants: 1,
			PriceOpen:       99,
			PriceDoubles:    199,
		})
		u1 := f.miniIdentity(t, "o-u1")
		u2 := f.miniIdentity(t, "o-u2")

		p, err := f.svc.Registrations.Create(ctx, u1, e.ID, RegistrationInput{Division: " Open ", TeamName: "A"})
		require.NoError(t, err)
		assert.Equal(t, "Open", p.Division)
		assert.Equal(t, models.Float(99), p.PaymentAmount)
		assert.Equal(t, participant.PaymentPending, p.PaymentStatus)
		assert.Equal(t, "Spring", p.EventTitle)
		assert.Equal(t, "o-u1", p.UserOpenID)
		require.NotNil(t, p.UserID)
		assert.Equal(t, u1.UserID, *p.UserID)
		assert.Equal(t, models.Float(5), p.FinalStrength)

		_, err = f.svc.Registrations.Create(ctx, u1, e.ID, RegistrationInput{Division: "Open"})
		assert.ErrorIs(t, err, ErrAlreadySigned)

		_, err = f.svc.Registrations.Create(ctx, u2, e.ID, RegistrationInput{Division: "Open"})
		assert.ErrorIs(t, err, ErrEventFull)

		assert.EqualValues(t, 1, f.count(t, "event_participants"))
	})

	t.Run("存在性检查漏过时由唯一约束拦截重复报名", func(t *testing.T) {
		var racing bool
		f := newFixtureWith(t, Options{}, func(b repositories.Backend) repositories.Backend {
			return &faultBackend{Backend: b, hideFind: func(table string, q repositories.Query) bool {
				return racing && table == "event_participants" &&
					(hasFilter(q, "user_id") || hasFilter(q, "user_openid"))
			}}
		})
		e := f.createEvent(t, event.Event{Title: "Race", Divisions: models.StringList{"Open"}})
		u := f.miniIdentity(t, "o-race")

		_, err := f.svc.Registrations.Create(ctx, u, e.ID, RegistrationInput{Division: "Open"})
		require.NoError(t, err)

		racing = true
		_, err = f.svc.Registrations.Create(ctx, u, e.ID, RegistrationInput{Division: "Open", TeamName: "B"})
		assert.ErrorIs(t, err, ErrAlreadySigned)
		assert.EqualValues(t, 1, f.count(t, "event_participants"))
	})

	t.Run("组别价格", func(t *testing.T) {
		f := newFixture(t, Options{})
		e := f.createEvent(t, event.Event{Title: "Pairs", PriceOpen: 99, PriceDoubles: 199, PriceRelay: 299})
		u := f.miniIdentity(t, "o-pairs")

		p, err := f.svc.Registrations.Create(ctx, u, e.ID, RegistrationInput{Division: "Doubles混双"})
		require.NoError(t, err)
		assert.Equal(t, models.Float(199), p.PaymentAmount)
	})

	t.Run("参数与赛事校验", func(t *testing.T) {
		f := newFixture(t, Options{})
		u := f.miniIdentity(t, "o-check")

		_, err := f.svc.Registrations.Create(ctx, u, 1, RegistrationInput{Division: "  "})
		assert.ErrorIs(t, err, ErrDivisionRequired)

		_, err = f.svc.Registrations.Create(ctx, u, 404, RegistrationInput{Division: "Open"})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestRegistrationMine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	e := f.createEvent(t, event.Event{Title: "Mine"})
	u := f.miniIdentity(t, "o-mine")

	status, err := f.svc.Registrations.Mine(ctx, u, e.ID)
	require.NoError(t, err)
	assert.False(t, status.IsSigned)
	assert.Nil(t, status.Registration)

	_, err = f.svc.Registrations.Create(ctx, u, e.ID, RegistrationInput{Division: "个人体验组"})
	require.NoError(t, err)

	status, err = f.svc.Registrations.Mine(ctx, u, e.ID)
	require.NoError(t, err)
	assert.True(t, status.IsSigned)
	require.NotNil(t, status.Registration)
	assert.Equal(t, "个人体验组", status.Registration.Division)

	t.Run("按 openid 回退匹配旧记录", func(t *testing.T) {
		legacy := &participant.Participant{EventID: e.ID + 1, UserOpenID: "o-mine", Division: "Open"}
		require.NoError(t, f.store.Participants.Create(ctx, legacy))

		p, err := FindRegistration(ctx, f.store, e.ID+1, u)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, legacy.ID, p.ID)
	})
}
