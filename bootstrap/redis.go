package bootstrap

import (
	"fmt"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/redis"
)

// SetupRedis 初始化 Redis，未配置 redis.host 时跳过
func SetupRedis() error {
	host := config.GetString("redis.host")
	if host == "" {
		return redis.InitRedis("", "", "", 0, 0)
	}
	return redis.InitRedis(
		fmt.Sprintf("%v:%v", host, config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
		config.GetInt("redis.queue_database"),
	)
}
