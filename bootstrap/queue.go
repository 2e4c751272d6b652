package bootstrap

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/queue"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/redis"
)

// SetupQueue 启用下载计数队列时返回入队计数器与工作器组，否则均为 nil
func SetupQueue(inline *services.InlineRecorder) (*queue.Recorder, *queue.Worker) {
	if !config.GetBool("queue.download_enabled") {
		return nil, nil
	}
	client := redis.GetRedis(redis.QueueDB)
	if client == nil {
		logger.WarnString("Queue", "Setup", "已开启下载计数队列但未配置 Redis，改为同步计数")
		return nil, nil
	}

	qs := queue.NewQueueService(queue.NewRedisStore(client.Client), queue.Config{
		Prefix:    config.GetString("queue.prefix"),
		RateLimit: config.GetFloat64("queue.rate_limit"),
		RateBurst: config.GetInt("queue.rate_burst"),
		MaxLength: config.GetInt64("queue.max_length"),
	})

	worker := queue.NewWorker(qs, queue.CounterHandler(inline), queue.WorkerConfig{
		WorkerCount:   config.GetInt("queue.worker_count", 2),
		MaxRetries:    config.GetInt("queue.retry_times", 3),
		RetryInterval: config.GetDuration("queue.retry_delay"),
		PopTimeout:    config.GetDuration("queue.pop_timeout"),
	})

	logger.InfoString("Queue", "Setup", "下载计数队列已启用")
	return queue.NewRecorder(qs, inline), worker
}
