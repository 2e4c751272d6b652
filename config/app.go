// Package config 站点配置信息
package config

import "github.com/boshenzh/werox-wechat-mini-program/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称，同时作为限流键前缀
			"name": config.Env("APP_NAME", "werox"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式，开启后注册 /debug/pprof
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口，云托管默认注入 PORT
			"port": config.Env("PORT", "3000"),

			// 设置时区，日志记录里会使用到
			"timezone": config.Env("TIMEZONE", "Asia/Shanghai"),

			// 请求体大小上限，单位字节
			"max_body_bytes": config.Env("APP_MAX_BODY_BYTES", 512*1024),

			// 优雅关闭等待时长
			"shutdown_timeout": config.Env("APP_SHUTDOWN_TIMEOUT", "10s"),
		}
	})
}
