// Package identitylink 第三方身份与用户主体的关联
package identitylink

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// 身份提供方
const (
	ProviderWechatMini    = "wechat_mini"
	ProviderWechatIOS     = "wechat_ios"
	ProviderCloudbaseAuth = "cloudbase_auth"
)

// IdentityLink 一条第三方身份，(provider, provider_uid) 唯一
type IdentityLink struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	DocOpenID   string  `gorm:"column:_openid;type:varchar(128)" json:"_openid"`
	UserID      int64   `gorm:"column:user_id;not null;index" json:"user_id"`
	Provider    string  `gorm:"type:varchar(32);not null;uniqueIndex:uk_provider_uid,priority:1" json:"provider"`
	ProviderUID string  `gorm:"column:provider_uid;type:varchar(128);not null;uniqueIndex:uk_provider_uid,priority:2" json:"provider_uid"`
	UnionID     *string `gorm:"column:unionid;type:varchar(128);index" json:"unionid"`
	AppID       *string `gorm:"column:appid;type:varchar(64)" json:"appid"`

	models.CommonTimestampsField
}

// TableName 表名
func (IdentityLink) TableName() string {
	return "identity_links"
}

// Matches 是否为同一 provider 下的同一身份
func (l *IdentityLink) Matches(provider, providerUID string) bool {
	return l.Provider == provider && l.ProviderUID == providerUID
}

// NullableString 空字符串转为 nil，写入数据库时为 NULL
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
