// Package queue 基于 Redis 列表的照片下载计数队列
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var (
	// ErrQueueFull 队列长度超过上限
	ErrQueueFull = errors.New("queue is full")
	// ErrRateLimited 入队速率超限
	ErrRateLimited = errors.New("queue rate limit exceeded")
)

// DownloadTask 照片下载计数任务
type DownloadTask struct {
	ID         string    `json:"id"`
	PhotoID    int64     `json:"photo_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Attempts   int       `json:"attempts"`
}

// Store 队列存储
type Store interface {
	Push(ctx context.Context, key string, value []byte) (int64, error)
	// Pop 阻塞读取，超时无数据时返回 (nil, nil)
	Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error)
	Len(ctx context.Context, key string) (int64, error)
}

// RedisStore 以 Redis 列表实现的队列存储，LPUSH 入队、BRPOP 出队
type RedisStore struct {
	client *goredis.Client
}

// NewRedisStore 创建 Redis 队列存储
func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Push 入队，返回入队后的长度
func (s *RedisStore) Push(ctx context.Context, key string, value []byte) (int64, error) {
	return s.client.LPush(ctx, key, value).Result()
}

// Pop 阻塞出队
func (s *RedisStore) Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	result, err := s.client.BRPop(ctx, timeout, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(result[1]), nil
}

// Len 队列长度
func (s *RedisStore) Len(ctx context.Context, key string) (int64, error) {
	return s.client.LLen(ctx, key).Result()
}

// Config 队列配置
type Config struct {
	Prefix    string
	RateLimit float64 // 每秒入队数，0 不限
	RateBurst int
	MaxLength int64 // 0 不限
}

// QueueService 下载计数队列
type QueueService struct {
	store       Store
	key         string
	maxLength   int64
	rateLimiter *rate.Limiter
	metrics     *QueueMetrics
}

// NewQueueService 创建队列服务
func NewQueueService(store Store, config Config) *QueueService {
	if config.Prefix == "" {
		config.Prefix = "werox:queue"
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RateLimit > 0 {
		if config.RateBurst <= 0 {
			config.RateBurst = int(config.RateLimit)
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}

	return &QueueService{
		store:       store,
		key:         config.Prefix + ":downloads",
		maxLength:   config.MaxLength,
		rateLimiter: limiter,
		metrics:     NewQueueMetrics("downloads"),
	}
}

// Metrics 队列指标
func (q *QueueService) Metrics() *QueueMetrics {
	return q.metrics
}

// PushDownload 记录一次照片下载。入队不等待令牌，超限直接返回错误由调用方兜底
func (q *QueueService) PushDownload(ctx context.Context, photoID int64) error {
	return q.Push(ctx, &DownloadTask{
		ID:         uuid.NewString(),
		PhotoID:    photoID,
		EnqueuedAt: time.Now(),
	})
}

// Push 任务入队
func (q *QueueService) Push(ctx context.Context, task *DownloadTask) error {
	if !q.rateLimiter.Allow() {
		q.metrics.RecordError(OpPush)
		return ErrRateLimited
	}

	if q.maxLength > 0 {
		n, err := q.store.Len(ctx, q.key)
		if err != nil {
			q.metrics.RecordError(OpPush)
			return fmt.Errorf("failed to read queue length: %w", err)
		}
		if n >= q.maxLength {
			q.metrics.RecordError(OpPush)
			return ErrQueueFull
		}
	}

	payload, err := json.Marshal(task)
	if err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if _, err := q.store.Push(ctx, q.key, payload); err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to push task: %w", err)
	}

	q.metrics.RecordSuccess(OpPush)
	return nil
}

// Pop 取出一个任务，超时无任务时返回 (nil, nil)
func (q *QueueService) Pop(ctx context.Context, timeout time.Duration) (*DownloadTask, error) {
	payload, err := q.store.Pop(ctx, q.key, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to pop task from queue: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	var task DownloadTask
	if err := json.Unmarshal(payload, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Len 当前积压的任务数
func (q *QueueService) Len(ctx context.Context) (int64, error) {
	return q.store.Len(ctx, q.key)
}
