// Package participant 赛事报名记录
package participant

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// 支付状态
const (
	PaymentPending = "pending"
)

// Participant 报名记录，(event_id, user_openid) 唯一
//
// 报名时冻结赛事与用户资料快照，之后不再同步
type Participant struct {
	ID                   int64        `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	DocOpenID            string       `gorm:"column:_openid;type:varchar(128)" json:"_openid,omitempty"`
	EventID              int64        `gorm:"column:event_id;not null;uniqueIndex:uk_event_user_openid,priority:1" json:"event_id"`
	UserID               *int64       `gorm:"column:user_id;index" json:"user_id,omitempty"`
	UserOpenID           string       `gorm:"column:user_openid;type:varchar(128);uniqueIndex:uk_event_user_openid,priority:2" json:"user_openid"`
	Division             string       `gorm:"type:varchar(64)" json:"division"`
	TeamName             string       `gorm:"type:varchar(128)" json:"team_name"`
	Note                 string       `gorm:"type:varchar(512)" json:"note"`
	EventTitle           string       `gorm:"type:varchar(128)" json:"event_title"`
	EventDate            string       `gorm:"type:varchar(16)" json:"event_date"`
	EventLocation        string       `gorm:"type:varchar(255)" json:"event_location"`
	UserNickname         string       `gorm:"type:varchar(64)" json:"user_nickname"`
	UserWechatID         string       `gorm:"column:user_wechat_id;type:varchar(64)" json:"user_wechat_id"`
	UserSex              string       `gorm:"type:varchar(16)" json:"user_sex"`
	UserAvatarFileID     string       `gorm:"column:user_avatar_file_id;type:varchar(512)" json:"user_avatar_file_id"`
	PaymentAmount        models.Float `json:"payment_amount"`
	PaymentStatus        string       `gorm:"type:varchar(16)" json:"payment_status"`
	BaseStrength         models.Float `json:"base_strength"`
	BaseEndurance        models.Float `json:"base_endurance"`
	CoachAdjustStrength  models.Float `json:"coach_adjust_strength"`
	CoachAdjustEndurance models.Float `json:"coach_adjust_endurance"`
	FinalStrength        models.Float `json:"final_strength"`
	FinalEndurance       models.Float `json:"final_endurance"`

	models.CommonTimestampsField
}

// TableName 表名
func (Participant) TableName() string {
	return "event_participants"
}
