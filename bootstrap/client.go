package bootstrap

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/bffclient"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
)

// SetupBFFClient 创建 BFF 客户端
//
// 配置了直连数据库时，后端不可用的动作改为直连存储完成
func SetupBFFClient(openid string) *bffclient.Client {
	var local *services.Services
	if UsesDirectDatabase() {
		store := repositories.NewStore(repositories.NewDatabaseBackend())
		local = services.New(store, services.Options{
			ProfileCacheSize: config.GetInt("identity.profile_cache_size"),
			ProfileCacheTTL:  config.GetDuration("identity.profile_cache_ttl"),
		})
	}

	return bffclient.New(bffclient.Options{
		BaseURL: config.GetString("client.bff_base_url"),
		Timeout: config.GetDuration("client.timeout"),
		OpenIDs: bffclient.StaticOpenID(openid),
		Local:   local,
		RoleTTL: config.GetDuration("client.role_cache_ttl"),
	})
}
