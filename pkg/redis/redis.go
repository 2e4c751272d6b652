// Package redis 提供 Redis 连接管理
//
// 主库用于限流计数，队列库用于异步任务。未配置地址时不建立连接，
// 调用方以 IsEnabled 判断是否退回进程内实现。
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 关键配置常量
const (
	// DefaultPoolSize Redis 连接池大小
	DefaultPoolSize = 50
	// DefaultTimeout 默认操作超时时间
	DefaultTimeout = 5 * time.Second
	// DefaultMinIdleConns 最小空闲连接数
	DefaultMinIdleConns = 5
	// DefaultMaxRetries 最大重试次数
	DefaultMaxRetries = 3
	// DefaultIdleTimeout 空闲超时
	DefaultIdleTimeout = 5 * time.Minute
)

// RedisInstance Redis 实例类型
type RedisInstance string

const (
	MainDB  RedisInstance = "main"  // 主数据库实例（用于限流）
	QueueDB RedisInstance = "queue" // 队列数据库实例
)

// RedisClient Redis 客户端封装
type RedisClient struct {
	Client  *redis.Client
	Context context.Context
}

// RedisConfig Redis 配置结构
type RedisConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	Timeout      time.Duration
}

// RedisManager 按用途管理多个 Redis 实例
type RedisManager struct {
	instances map[RedisInstance]*RedisClient
	mutex     sync.RWMutex
}

var (
	once    sync.Once
	Manager = &RedisManager{instances: map[RedisInstance]*RedisClient{}}
)

// NewClient 创建新的 Redis 客户端并测试连接
func NewClient(config RedisConfig) (*RedisClient, error) {
	rds := &RedisClient{
		Context: context.Background(),
	}
	if config.PoolSize == 0 {
		config.PoolSize = DefaultPoolSize
	}
	if config.MinIdleConns == 0 {
		config.MinIdleConns = DefaultMinIdleConns
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	rds.Client = redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,

		// 连接池配置
		PoolTimeout:     config.Timeout,
		ConnMaxIdleTime: DefaultIdleTimeout,
		ConnMaxLifetime: 24 * time.Hour,

		// 读写超时
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// 重试策略
		MaxRetries:      DefaultMaxRetries,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	if err := rds.Ping(); err != nil {
		_ = rds.Client.Close()
		return nil, fmt.Errorf("redis 连接失败 %s/%d: %w", config.Address, config.DB, err)
	}
	return rds, nil
}

// Ping 测试 Redis 连接
func (rds *RedisClient) Ping() error {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	return rds.Client.Ping(ctx).Err()
}

// InitRedis 初始化主库与队列库，address 为空时跳过
func InitRedis(address, username, password string, mainDB, queueDB int) error {
	if address == "" {
		logger.Info("Redis 未配置，限流与下载队列使用进程内实现")
		return nil
	}

	var initErr error
	once.Do(func() {
		for instance, db := range map[RedisInstance]int{MainDB: mainDB, QueueDB: queueDB} {
			client, err := NewClient(RedisConfig{
				Address:  address,
				Username: username,
				Password: password,
				DB:       db,
			})
			if err != nil {
				initErr = err
				return
			}
			Manager.set(instance, client)
		}
		logger.Info("Redis 连接成功", zap.String("address", address), zap.Int("main_db", mainDB), zap.Int("queue_db", queueDB))
	})
	return initErr
}

// GetRedis 获取指定的 Redis 实例，未初始化时返回 nil
func GetRedis(instance RedisInstance) *RedisClient {
	Manager.mutex.RLock()
	defer Manager.mutex.RUnlock()
	return Manager.instances[instance]
}

// IsEnabled 指定实例是否可用
func IsEnabled(instance RedisInstance) bool {
	return GetRedis(instance) != nil
}

// Close 关闭全部连接
func Close() {
	Manager.mutex.Lock()
	defer Manager.mutex.Unlock()
	for name, client := range Manager.instances {
		if err := client.Client.Close(); err != nil {
			logger.Warn("关闭 Redis 连接失败", zap.String("instance", string(name)), zap.Error(err))
		}
		delete(Manager.instances, name)
	}
}

func (m *RedisManager) set(instance RedisInstance, client *RedisClient) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.instances[instance] = client
}
