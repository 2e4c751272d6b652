package config

import "github.com/boshenzh/werox-wechat-mini-program/pkg/config"

func init() {
	config.Add("client", func() map[string]interface{} {
		return map[string]interface{}{
			// 客户端访问的 BFF 地址
			"bff_base_url": config.Env("CLIENT_BFF_BASE_URL", "http://127.0.0.1:3000"),
			"timeout":      config.Env("CLIENT_TIMEOUT", "10s"),
			// 角色缓存时长
			"role_cache_ttl": config.Env("CLIENT_ROLE_CACHE_TTL", "5m"),
		}
	})
}
