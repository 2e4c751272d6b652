package config

import "github.com/boshenzh/werox-wechat-mini-program/pkg/config"

func init() {
	config.Add("limit", func() map[string]interface{} {
		return map[string]interface{}{
			// 全局每 IP 限流
			"global": config.Env("LIMIT_GLOBAL", "30000-H"),
			// 报名
			"registration": config.Env("LIMIT_REGISTRATION", "10-M"),
			// 相册上传
			"album_upload": config.Env("LIMIT_ALBUM_UPLOAD", "20-M"),
			// 资料更新
			"profile_update": config.Env("LIMIT_PROFILE_UPDATE", "10-M"),
		}
	})
}
