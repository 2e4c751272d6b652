package bootstrap

import (
	"net/http"
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/http/middlewares"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/app"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"
	"github.com/boshenzh/werox-wechat-mini-program/routes"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// SetupRoute 路由初始化
// 1. 注册全局中间件
// 2. 注册 API 路由
// 3. 配置 404 处理器
func SetupRoute(router *gin.Engine, svc *services.Services) {
	registerGlobalMiddleWare(router)

	routes.RegisterAPIRoutes(router, svc)

	// 调试模式下暴露 /debug/pprof
	if app.IsDebug() {
		pprof.Register(router)
	}

	setup404Handler(router)
}

// registerGlobalMiddleWare 注册全局中间件
// - Logger 中间件：记录请求日志
// - Recovery 中间件：从 panic 中恢复
// - Metrics 中间件：请求计数与耗时
// - Cors 中间件：预检请求没有匹配的路由，需在全局处理
func registerGlobalMiddleWare(router *gin.Engine) {
	router.Use(
		middlewares.Logger(),
		middlewares.Recovery(),
		middlewares.Metrics(),
		middlewares.Cors(),
		limitBody(config.GetInt64("app.max_body_bytes", 512*1024)),
	)
}

// limitBody 限制请求体大小
func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && max > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}

// setup404Handler 配置 404 请求处理器
// 根据请求的 Accept 头来返回不同格式的 404 响应
func setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		if strings.Contains(c.Request.Header.Get("Accept"), "text/html") {
			c.String(http.StatusNotFound, "页面返回 404")
			return
		}
		response.Abort404(c, "NOT_FOUND", "路由未定义，请确认 url 和请求方法是否正确。")
	})
}
