// Package appuser 多身份体系下的用户主体
package appuser

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// 状态
const (
	StatusActive = "active"
)

// AppUser 用户主体，可被多个 identity_links 关联
type AppUser struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	Status string `gorm:"type:varchar(16);default:active" json:"status"`
	Role   string `gorm:"type:varchar(32);default:runner" json:"role"`

	models.CommonTimestampsField
}

// TableName 表名
func (AppUser) TableName() string {
	return "app_users"
}
