package config

import "github.com/boshenzh/werox-wechat-mini-program/pkg/config"

func init() {
	config.Add("queue", func() map[string]interface{} {
		return map[string]interface{}{
			// 照片下载计数异步写入，需要 Redis
			"download_enabled": config.Env("QUEUE_DOWNLOAD_ENABLED", false),
			"prefix":           config.Env("QUEUE_PREFIX", "werox:queue"),
			"worker_count":     config.Env("QUEUE_WORKER_COUNT", 2),
			"retry_times":      config.Env("QUEUE_RETRY_TIMES", 3),
			"retry_delay":      config.Env("QUEUE_RETRY_DELAY", "1s"),
			// 阻塞读取任务的超时
			"pop_timeout": config.Env("QUEUE_POP_TIMEOUT", "2s"),
			// 入队速率，每秒
			"rate_limit": config.Env("QUEUE_RATE_LIMIT", 200),
			"rate_burst": config.Env("QUEUE_RATE_BURST", 50),
			// 队列最大长度，超过后丢弃新任务
			"max_length": config.Env("QUEUE_MAX_LENGTH", 10000),
		}
	})
}
