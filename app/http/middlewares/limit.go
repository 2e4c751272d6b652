package middlewares

import (
	"sync"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/app"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/limiter"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/metrics"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	// DefaultBurst 默认突发请求数量
	DefaultBurst = 100
	// limiterIdleTTL 超过该时长未访问的 IP 限流器会被清理
	limiterIdleTTL = 24 * time.Hour
)

var (
	// 用于存储限流器的并发安全缓存
	limiters sync.Map
	// 限流器最近一次访问时间
	lastAccess  sync.Map
	cleanupOnce sync.Once
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Limit string
	Burst int
}

// LimitIP 全局限流中间件，针对 IP 进行令牌桶限流
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
func LimitIP(limit string) gin.HandlerFunc {
	// 测试环境使用较大限制
	if app.IsTesting() {
		limit = "1000000-H"
	}

	config := RateLimitConfig{
		Limit: limit,
		Burst: DefaultBurst,
	}

	cleanupOnce.Do(func() {
		go cleanupLimiters()
	})

	return func(c *gin.Context) {
		key := limiter.GetKeyIP(c)

		lim, err := getLimiter(key, config)
		if err != nil {
			logger.ErrorString("限流器", "创建失败", err.Error())
			// 降级处理：允许请求通过
			c.Next()
			return
		}
		lastAccess.Store(key, time.Now())

		if !lim.Allow() {
			metrics.RateLimited.WithLabelValues("ip").Inc()
			response.Abort429(c)
			return
		}

		c.Header("X-RateLimit-Limit", cast.ToString(float64(lim.Limit())))
		c.Header("X-RateLimit-Remaining", cast.ToString(int(lim.Tokens())))
		c.Next()
	}
}

// LimitPerRoute 针对单个路由的限流中间件
//
// 已识别身份的请求按 openid 计数，否则按 IP，计数存储在 Redis（未配置时在进程内）。
// msg 为超限时的提示文案
func LimitPerRoute(limit string, msg ...string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	return func(c *gin.Context) {
		key := limiter.GetKeyRouteWithSubject(c)

		result, err := limiter.CheckRate(c, key, limit)
		if err != nil {
			logger.LogIf(err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", cast.ToString(result.Limit))
		c.Header("X-RateLimit-Remaining", cast.ToString(result.Remaining))
		c.Header("X-RateLimit-Reset", cast.ToString(result.Reset))

		if result.Reached {
			metrics.RateLimited.WithLabelValues("route").Inc()
			response.Abort429(c, msg...)
			return
		}

		c.Next()
	}
}

// getLimiter 获取或创建限流器
func getLimiter(key string, config RateLimitConfig) (*rate.Limiter, error) {
	if lim, exists := limiters.Load(key); exists {
		return lim.(*rate.Limiter), nil
	}

	r, err := limiter.ParseLimit(config.Limit)
	if err != nil {
		return nil, err
	}

	lim := rate.NewLimiter(rate.Limit(r.Rate), config.Burst)
	actual, _ := limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter), nil
}

// cleanupLimiters 定期清理长时间未访问的限流器
func cleanupLimiters() {
	ticker := time.NewTicker(time.Hour)
	for range ticker.C {
		now := time.Now()
		limiters.Range(func(key, _ interface{}) bool {
			last, ok := lastAccess.Load(key)
			if !ok || now.Sub(last.(time.Time)) > limiterIdleTTL {
				limiters.Delete(key)
				lastAccess.Delete(key)
			}
			return true
		})
	}
}
