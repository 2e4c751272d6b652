// Package photo 赛事相册照片
package photo

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// 生命周期状态，只做软删除
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Photo 相册照片
type Photo struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	EventID        int64            `gorm:"column:event_id;not null;index:idx_event_status,priority:1" json:"event_id"`
	FileID         string           `gorm:"column:file_id;type:varchar(512);not null" json:"file_id"`
	ThumbFileID    string           `gorm:"column:thumb_file_id;type:varchar(512)" json:"thumb_file_id"`
	FilePath       string           `gorm:"type:varchar(512)" json:"file_path"`
	MimeType       string           `gorm:"type:varchar(64)" json:"mime_type"`
	Width          *int             `json:"width"`
	Height         *int             `json:"height"`
	SizeBytes      *int64           `json:"size_bytes"`
	ShotAt         *models.DateTime `json:"shot_at"`
	Status         string           `gorm:"type:varchar(16);default:active;index:idx_event_status,priority:2" json:"status"`
	DownloadCount  int64            `gorm:"default:0" json:"download_count"`
	UploaderOpenID string           `gorm:"column:uploader_openid;type:varchar(128)" json:"uploader_openid"`
	UploaderRole   string           `gorm:"type:varchar(32)" json:"uploader_role"`
	UploaderUserID *int64           `gorm:"column:uploader_user_id" json:"uploader_user_id,omitempty"`

	models.CommonTimestampsField
}

// TableName 表名
func (Photo) TableName() string {
	return "event_album_photos"
}
