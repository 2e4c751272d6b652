package config

import "github.com/boshenzh/werox-wechat-mini-program/pkg/config"

func init() {
	config.Add("cloudbase", func() map[string]interface{} {
		return map[string]interface{}{
			// 云开发环境 ID
			"env_id": config.Env("TCB_ENV_ID", ""),
			// 服务端 API Key，用于访问云数据库 REST 接口与云存储
			"api_key": config.Env("TCB_API_KEY", ""),
			// 网关地址，留空时按环境 ID 推导
			"base_url": config.Env("TCB_API_BASE_URL", ""),
			// 请求超时
			"timeout": config.Env("TCB_TIMEOUT", "10s"),

			// 身份认证客户端，iOS 登录使用
			"auth_client_id":     config.Env("TCB_AUTH_CLIENT_ID", ""),
			"auth_client_secret": config.Env("TCB_AUTH_CLIENT_SECRET", ""),
			"auth_provider_id":   config.Env("TCB_AUTH_PROVIDER_ID", "wechat"),
		}
	})
}
