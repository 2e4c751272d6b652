package bootstrap

import (
	"context"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/queue"
)

// Application 运行期依赖
type Application struct {
	Services *services.Services
	Worker   *queue.Worker
}

// SetupServices 组装存储后端与业务服务
//
// 存储后端为 rdb 时经云数据库 REST 接口读写，否则直连数据库
func SetupServices(client *cloudbase.Client) *Application {
	var backend repositories.Backend
	if UsesDirectDatabase() {
		backend = repositories.NewDatabaseBackend()
	} else {
		backend = repositories.NewRDBBackend(client)
	}
	store := repositories.NewStore(backend)

	inline := services.NewInlineRecorder(store.Photos)
	recorder, worker := SetupQueue(inline)

	opts := services.Options{
		Signer:           client,
		ProfileCacheSize: config.GetInt("identity.profile_cache_size"),
		ProfileCacheTTL:  config.GetDuration("identity.profile_cache_ttl"),
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	if authConfigured() {
		opts.Auth = client
	}

	svc := services.New(store, opts)

	// 启动时探测身份表结构，失败不影响启动，首次解析时重试
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := svc.Identity.Probe(ctx); err != nil {
		logger.WarnString("Identity", "Probe", err.Error())
	}

	return &Application{Services: svc, Worker: worker}
}
