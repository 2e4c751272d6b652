package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/boshenzh/werox-wechat-mini-program/bootstrap"
	btsConfig "github.com/boshenzh/werox-wechat-mini-program/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/app"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 加载应用程序的基础配置
func init() {
	// 加载 config 目录下的配置信息
	btsConfig.Initialize()
}

// App 应用程序上下文，用于优雅关闭
type App struct {
	server *http.Server
	app    *bootstrap.Application
}

func main() {
	env := parseFlags()

	application, err := setupApplication(env)
	if err != nil {
		log.Fatalf("初始化应用程序失败: %v", err)
	}

	router := setupServer(application)

	a := &App{
		server: &http.Server{
			Addr:    ":" + config.Get("app.port"),
			Handler: router,
		},
		app: application,
	}
	a.start()
}

// parseFlags 解析命令行参数
func parseFlags() string {
	var env string
	flag.StringVar(&env, "env", "", "加载 .env 文件，例如 --env=testing 将加载 .env.testing 文件")
	flag.Parse()
	return env
}

// setupApplication 初始化应用程序所需的各种组件
func setupApplication(env string) (*bootstrap.Application, error) {
	config.InitConfig(env)

	bootstrap.SetupLogger()

	if err := bootstrap.SetupDB(); err != nil {
		return nil, err
	}
	if err := bootstrap.SetupRedis(); err != nil {
		return nil, err
	}

	client := bootstrap.SetupCloudbase()
	application := bootstrap.SetupServices(client)
	if application.Worker != nil {
		application.Worker.Start()
	}
	return application, nil
}

// setupServer 配置并返回 Gin 服务器实例
func setupServer(application *bootstrap.Application) *gin.Engine {
	if !app.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	bootstrap.SetupRoute(router, application.Services)
	return router
}

// start 启动服务器并处理优雅关闭
func (a *App) start() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("服务器正在启动", zap.String("addr", a.server.Addr), zap.String("env", config.Get("app.env")))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration("app.shutdown_timeout"))
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	if a.app.Worker != nil {
		a.app.Worker.Stop()
	}
	redis.Close()
	_ = logger.Logger.Sync()

	logger.Info("服务器已成功关闭")
}
