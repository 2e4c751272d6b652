package requests

import (
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/services"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// PhotoRequest 相册照片登记请求，file_id 为云存储文件 ID
type PhotoRequest struct {
	FileID      string `json:"file_id"`
	ThumbFileID string `json:"thumb_file_id"`
	FilePath    string `json:"file_path"`
	MimeType    string `json:"mime_type"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
	SizeBytes   *int64 `json:"size_bytes"`
	ShotAt      string `json:"shot_at"`
}

type photoFields struct {
	FileID   string `json:"file_id"`
	MimeType string `json:"mime_type"`
}

// ValidatePhoto 校验照片登记请求
func ValidatePhoto(c *gin.Context) (services.PhotoInput, error) {
	var req PhotoRequest
	if err := BindJSON(c, &req); err != nil {
		return services.PhotoInput{}, err
	}
	req.FileID = strings.TrimSpace(req.FileID)

	rules := govalidator.MapData{
		"file_id":   []string{"required", "max:512"},
		"mime_type": []string{"max:64"},
	}
	messages := govalidator.MapData{
		"file_id": []string{
			"required:缺少有效的文件ID",
			"max:文件ID过长",
		},
		"mime_type": []string{
			"max:文件类型过长",
		},
	}
	if err := ValidateStruct(&photoFields{FileID: req.FileID, MimeType: req.MimeType}, rules, messages); err != nil {
		return services.PhotoInput{}, err
	}

	return services.PhotoInput{
		FileID:      req.FileID,
		ThumbFileID: strings.TrimSpace(req.ThumbFileID),
		FilePath:    strings.TrimSpace(req.FilePath),
		MimeType:    strings.TrimSpace(req.MimeType),
		Width:       req.Width,
		Height:      req.Height,
		SizeBytes:   req.SizeBytes,
		ShotAt:      strings.TrimSpace(req.ShotAt),
	}, nil
}
