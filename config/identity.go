package config

import "github.com/boshenzh/werox-wechat-mini-program/pkg/config"

func init() {
	config.Add("identity", func() map[string]interface{} {
		return map[string]interface{}{
			// 按 access token 缓存认证服务返回的用户信息，0 关闭缓存
			"profile_cache_size": config.Env("IDENTITY_PROFILE_CACHE_SIZE", 1024),
			"profile_cache_ttl":  config.Env("IDENTITY_PROFILE_CACHE_TTL", "60s"),
		}
	})
}
