package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

func TestStatusAt(t *testing.T) {
	e := Event{EventDate: "2026/05/01", EventTime: "15:00"}
	start, end := e.Window()
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 2*time.Hour, end.Sub(*start))

	before := start.Add(-time.Minute)
	assert.Equal(t, StatusUpcoming, e.StatusAt(before).Status)
	assert.True(t, e.StatusAt(before).SignupOpen)
	assert.Equal(t, StatusOngoing, e.StatusAt(start.Add(time.Hour)).Status)
	assert.False(t, e.StatusAt(start.Add(time.Hour)).SignupOpen)
	assert.Equal(t, StatusEnded, e.StatusAt(*end).Status)

	t.Run("start_at 优先", func(t *testing.T) {
		at := models.DateTime(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
		e := Event{EventDate: "2026-05-01", StartAt: &at}
		start, _ := e.Window()
		assert.True(t, start.Equal(at.Time()))
	})

	t.Run("没有日期时视为即将开始", func(t *testing.T) {
		info := (&Event{}).StatusAt(time.Now())
		assert.Equal(t, StatusUpcoming, info.Status)
		assert.Nil(t, info.StartAt)
	})
}

func TestPriceFor(t *testing.T) {
	e := Event{PriceOpen: 99, PriceDoubles: 199, PriceRelay: 299}
	assert.Equal(t, models.Float(99), e.PriceFor("Open男"))
	assert.Equal(t, models.Float(199), e.PriceFor("DOUBLES混双"))
	assert.Equal(t, models.Float(299), e.PriceFor("Team relay"))
}

func TestDivisionList(t *testing.T) {
	assert.Equal(t, models.StringList{"个人体验组", "双人同伴组", "团队接力组"}, (&Event{}).DivisionList())
	assert.Equal(t, models.StringList{"Open男", "Open女", "Doubles混双"}, (&Event{DivisionTemplate: TemplateHyroxOfficial}).DivisionList())
	assert.Equal(t, models.StringList{"A"}, (&Event{Divisions: models.StringList{" A ", ""}}).DivisionList())
}

func TestIsFull(t *testing.T) {
	assert.False(t, (&Event{}).IsFull(1000))
	assert.False(t, (&Event{MaxParticipants: 2}).IsFull(1))
	assert.True(t, (&Event{MaxParticipants: 2}).IsFull(2))
}
