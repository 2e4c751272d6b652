// Package event 赛事模型
package event

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// Event 赛事
//
// 生命周期状态由 start_at/end_at（或兼容字段 event_date + event_time）与当前时间推导，
// status 列仅作历史兼容，不作为判断依据
type Event struct {
	ID               int64             `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	Title            string            `gorm:"type:varchar(128);not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	Location         string            `gorm:"type:varchar(255)" json:"location"`
	Latitude         *models.Float     `json:"latitude"`
	Longitude        *models.Float     `json:"longitude"`
	EventDate        string            `gorm:"type:varchar(16);index" json:"event_date"` // YYYY-MM-DD
	EventTime        string            `gorm:"type:varchar(8)" json:"event_time"`        // HH:mm
	StartAt          *models.DateTime  `json:"start_at"`
	EndAt            *models.DateTime  `json:"end_at"`
	CoverURL         string            `gorm:"column:cover_url;type:varchar(512)" json:"cover_url"`
	PosterURL        string            `gorm:"column:poster_url;type:varchar(512)" json:"poster_url"`
	Status           string            `gorm:"type:varchar(16)" json:"status"`
	EventType        string            `gorm:"type:varchar(32)" json:"event_type"`
	FormatMode       string            `gorm:"type:varchar(32)" json:"format_mode"`
	ScoringMode      string            `gorm:"type:varchar(32)" json:"scoring_mode"`
	TimeCapMinutes   int               `json:"time_cap_minutes"`
	Rounds           int               `json:"rounds"`
	DivisionTemplate string            `gorm:"type:varchar(32)" json:"division_template"`
	Divisions        models.StringList `gorm:"type:text" json:"divisions"`
	MaxParticipants  int               `json:"max_participants"` // 0 表示不限
	PriceOpen        models.Float      `json:"price_open"`
	PriceDoubles     models.Float      `json:"price_doubles"`
	PriceRelay       models.Float      `json:"price_relay"`
	BaseStrength     models.Float      `json:"base_strength"`
	BaseEndurance    models.Float      `json:"base_endurance"`
	DetailBlocks     string            `gorm:"type:text" json:"detail_blocks"`
	CreatedBy        string            `gorm:"type:varchar(128)" json:"created_by,omitempty"`

	models.CommonTimestampsField
}

// TableName 表名
func (Event) TableName() string {
	return "events"
}
