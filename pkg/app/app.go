// Package app 提供应用程序相关的辅助函数
package app

import (
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
)

// ServiceName 健康检查中返回的服务名
const ServiceName = "werox-bff"

// IsLocal 判断当前是否运行在本地环境
func IsLocal() bool {
	return config.Get("app.env") == "local"
}

// IsProduction 判断当前是否运行在生产环境
func IsProduction() bool {
	return config.Get("app.env") == "production"
}

// IsTesting 判断当前是否运行在测试环境
func IsTesting() bool {
	return config.Get("app.env") == "testing"
}

// IsDebug 是否开启调试模式，开启后注册 pprof 路由
func IsDebug() bool {
	return config.GetBool("app.debug")
}

// TimenowInTimezone 获取当前时间（支持时区设置）
// 从配置文件读取 app.timezone 配置项来确定时区，时区无效时使用 UTC
func TimenowInTimezone() time.Time {
	loc, err := time.LoadLocation(config.GetString("app.timezone", "Asia/Shanghai"))
	if err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}
