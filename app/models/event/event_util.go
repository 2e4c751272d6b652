package event

import (
	"strings"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// 生命周期状态
const (
	StatusUpcoming = "upcoming"
	StatusOngoing  = "ongoing"
	StatusEnded    = "ended"
)

// DefaultDuration 未设置结束时间时的默认赛事时长
const DefaultDuration = 2 * time.Hour

// TemplateHyroxOfficial HYROX 官方组别模板
const TemplateHyroxOfficial = "hyrox_official"

var (
	hyroxOfficialDivisions = []string{"Open男", "Open女", "Doubles混双"}
	casualDivisions        = []string{"个人体验组", "双人同伴组", "团队接力组"}
)

// StatusInfo 推导出的赛事状态
type StatusInfo struct {
	Status     string     `json:"status"`
	StatusText string     `json:"status_text"`
	SignupOpen bool       `json:"signup_open"`
	StartAt    *time.Time `json:"start_at"`
	EndAt      *time.Time `json:"end_at"`
}

// location 赛事日期按北京时间解析
var location = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}()

// Window 赛事起止时间。优先使用 start_at，否则由 event_date + event_time 组合（时间缺省 00:00）；
// 结束时间缺省为开始后两小时
func (e *Event) Window() (start, end *time.Time) {
	if e.StartAt != nil && !e.StartAt.IsZero() {
		t := e.StartAt.Time()
		start = &t
	} else if t, ok := combineDateTime(e.EventDate, e.EventTime); ok {
		start = &t
	}

	if e.EndAt != nil && !e.EndAt.IsZero() {
		t := e.EndAt.Time()
		end = &t
	} else if start != nil {
		t := start.Add(DefaultDuration)
		end = &t
	}
	return start, end
}

// StatusAt 根据给定时间推导赛事状态
func (e *Event) StatusAt(now time.Time) StatusInfo {
	start, end := e.Window()
	info := StatusInfo{StartAt: start, EndAt: end}

	switch {
	case start == nil || now.Before(*start):
		info.Status, info.StatusText, info.SignupOpen = StatusUpcoming, "即将开始", true
	case end == nil || now.Before(*end):
		info.Status, info.StatusText = StatusOngoing, "进行中"
	default:
		info.Status, info.StatusText = StatusEnded, "已结束"
	}
	return info
}

// DivisionList 组别列表。已配置时按配置返回，否则按模板给出默认组别
func (e *Event) DivisionList() models.StringList {
	list := models.StringList{}
	for _, d := range e.Divisions {
		if d = strings.TrimSpace(d); d != "" {
			list = append(list, d)
		}
	}
	if len(list) > 0 {
		return list
	}
	if e.DivisionTemplate == TemplateHyroxOfficial {
		return append(models.StringList{}, hyroxOfficialDivisions...)
	}
	return append(models.StringList{}, casualDivisions...)
}

// IsFull 报名人数是否已达上限，max_participants 为 0 时不限
func (e *Event) IsFull(count int64) bool {
	return e.MaxParticipants > 0 && count >= int64(e.MaxParticipants)
}

// PriceFor 按组别名称选择报名费：包含 Doubles 为双人价，包含 Relay 为接力价（不区分大小写），否则为公开组价
func (e *Event) PriceFor(division string) models.Float {
	lower := strings.ToLower(division)
	price := e.PriceOpen
	if strings.Contains(lower, "doubles") {
		price = e.PriceDoubles
	}
	if strings.Contains(lower, "relay") {
		price = e.PriceRelay
	}
	return price
}

// BaseScores 基础力量与耐力分，未设置时为 5
func (e *Event) BaseScores() (strength, endurance models.Float) {
	strength, endurance = e.BaseStrength, e.BaseEndurance
	if strength == 0 {
		strength = 5
	}
	if endurance == 0 {
		endurance = 5
	}
	return strength, endurance
}

func combineDateTime(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(strings.ReplaceAll(date, "/", "-"))
	if date == "" {
		return time.Time{}, false
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
