package photo

import "strings"

// FileIDScheme 云存储文件 ID 前缀
const FileIDScheme = "cloud://"

// IsCloudFileID 文件 ID 是否为云存储引用
func IsCloudFileID(fileID string) bool {
	return strings.HasPrefix(strings.TrimSpace(fileID), FileIDScheme)
}

// IsActive 是否为正常状态
func (p *Photo) IsActive() bool {
	return p.Status == "" || p.Status == StatusActive
}

// UploadedBy 是否由指定身份上传，先按用户 ID 匹配，再按 openid 匹配
func (p *Photo) UploadedBy(userID int64, openid string) bool {
	if userID != 0 && p.UploaderUserID != nil && *p.UploaderUserID == userID {
		return true
	}
	return openid != "" && p.UploaderOpenID != "" && p.UploaderOpenID == openid
}
