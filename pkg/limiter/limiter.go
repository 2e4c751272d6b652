// Package limiter 处理限流逻辑
package limiter

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/redis"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// SubjectContextKey 身份中间件写入的限流主体（openid），未登录请求退回 IP
const SubjectContextKey = "limiter-subject"

// Rate 定义限流速率
type Rate struct {
	Rate float64
}

// ParseLimit 解析限流配置字符串
// 支持的格式: "5-S"、"10-M"、"1000-H"、"2000-D"
func ParseLimit(limit string) (*Rate, error) {
	if _, err := limiterlib.NewRateFromFormatted(limit); err != nil {
		return nil, fmt.Errorf("invalid limit format: %w", err)
	}

	parts := strings.Split(limit, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid limit format: %s", limit)
	}

	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate value: %s", parts[0])
	}

	// 根据时间单位转换为每秒的速率
	var ratePerSecond float64
	switch strings.ToUpper(parts[1]) {
	case "S":
		ratePerSecond = value
	case "M":
		ratePerSecond = value / 60.0
	case "H":
		ratePerSecond = value / 3600.0
	case "D":
		ratePerSecond = value / 86400.0
	default:
		return nil, fmt.Errorf("invalid time unit: %s", parts[1])
	}

	return &Rate{Rate: ratePerSecond}, nil
}

// GetKeyIP 获取 Limitor 的 Key，IP
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP Limitor 的 Key，路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// GetKeyRouteWithSubject 路由+用户，已识别身份时按 openid 计数
func GetKeyRouteWithSubject(c *gin.Context) string {
	if subject := c.GetString(SubjectContextKey); subject != "" {
		return routeToKeyString(c.FullPath()) + subject
	}
	return GetKeyRouteWithIP(c)
}

var (
	storeOnce   sync.Once
	sharedStore limiterlib.Store
	instances   sync.Map // formatted rate => *limiterlib.Limiter
)

// store 优先使用 Redis 计数，多实例部署时共享额度；未配置 Redis 时使用进程内存储
func store() limiterlib.Store {
	storeOnce.Do(func() {
		options := limiterlib.StoreOptions{
			Prefix:          config.GetString("app.name", "werox") + ":limiter",
			CleanUpInterval: time.Minute,
		}
		if client := redis.GetRedis(redis.MainDB); client != nil {
			s, err := sredis.NewStoreWithOptions(client.Client, options)
			if err == nil {
				sharedStore = s
				return
			}
			logger.LogIf(err)
		}
		sharedStore = smemory.NewStoreWithOptions(options)
	})
	return sharedStore
}

func limiterFor(formatted string) (*limiterlib.Limiter, error) {
	if l, ok := instances.Load(formatted); ok {
		return l.(*limiterlib.Limiter), nil
	}
	rate, err := limiterlib.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	l, _ := instances.LoadOrStore(formatted, limiterlib.New(store(), rate))
	return l.(*limiterlib.Limiter), nil
}

// CheckRate 检测请求是否超额
func CheckRate(c *gin.Context, key string, formatted string) (limiterlib.Context, error) {
	var context limiterlib.Context
	limiterObj, err := limiterFor(formatted)
	if err != nil {
		logger.LogIf(err)
		return context, err
	}

	// Get() 取结果且增加访问次数
	return limiterObj.Get(c, key)
}

// routeToKeyString 辅助方法，将 URL 中的 / 格式为 -
func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}
