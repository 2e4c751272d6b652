// Package user 存放用户 Model 相关逻辑
package user

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// 角色
const (
	RoleRunner    = "runner"
	RoleCoach     = "coach"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User 以 openid 为键的用户资料（旧版单表结构，同时作为新版结构的资料镜像）
type User struct {
	ID                   int64             `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	UserID               *int64            `gorm:"column:user_id;index" json:"user_id,omitempty"` // 关联 app_users.id
	OpenID               string            `gorm:"column:openid;type:varchar(128);uniqueIndex" json:"openid"`
	DocOpenID            string            `gorm:"column:_openid;type:varchar(128)" json:"_openid,omitempty"` // 云开发文档权限字段
	Nickname             string            `gorm:"type:varchar(64)" json:"nickname"`
	AvatarFileID         string            `gorm:"type:varchar(512)" json:"avatar_file_id"`
	Sex                  string            `gorm:"type:varchar(16)" json:"sex"`
	BirthYear            *int              `json:"birth_year"`
	Role                 string            `gorm:"type:varchar(32);default:runner;index" json:"role"`
	HyroxLevel           string            `gorm:"type:varchar(64)" json:"hyrox_level"`
	BestHyroxTime        string            `gorm:"type:varchar(32)" json:"best_hyrox_time"`
	RacesCompleted       int               `json:"races_completed"`
	PreferredDivision    string            `gorm:"type:varchar(64)" json:"preferred_division"`
	TrainingFocus        string            `gorm:"type:varchar(64)" json:"training_focus"`
	WeeklyTrainingHours  *models.Float     `json:"weekly_training_hours"`
	SeekingPartner       models.Bool       `json:"seeking_partner"`
	PreferredPartnerRole string            `gorm:"type:varchar(64)" json:"preferred_partner_role"`
	PartnerNote          string            `gorm:"type:varchar(512)" json:"partner_note"`
	MBTI                 string            `gorm:"column:mbti;type:varchar(16)" json:"mbti"`
	Tags                 models.StringList `gorm:"type:text" json:"tags"`
	Bio                  string            `gorm:"type:text" json:"bio"`
	WechatID             string            `gorm:"column:wechat_id;type:varchar(64)" json:"wechat_id"`
	Phone                string            `gorm:"type:varchar(32)" json:"phone"`

	models.CommonTimestampsField
}

// TableName 表名
func (User) TableName() string {
	return "users"
}
