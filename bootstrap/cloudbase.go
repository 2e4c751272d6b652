package bootstrap

import (
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	"go.uber.org/zap"
)

// SetupCloudbase 创建云开发 HTTP API 客户端
func SetupCloudbase() *cloudbase.Client {
	client := cloudbase.NewClient(cloudbase.Config{
		EnvID:        config.GetString("cloudbase.env_id"),
		APIKey:       config.GetString("cloudbase.api_key"),
		BaseURL:      config.GetString("cloudbase.base_url"),
		Timeout:      config.GetDuration("cloudbase.timeout"),
		ClientID:     config.GetString("cloudbase.auth_client_id"),
		ClientSecret: config.GetString("cloudbase.auth_client_secret"),
		ProviderID:   config.GetString("cloudbase.auth_provider_id"),
	})

	if !client.HasAPIKey() {
		logger.Warn("未配置 TCB_API_KEY，数据接口将返回 503", zap.String("env_id", client.EnvID()))
	}
	return client
}

// authConfigured 是否配置了身份认证客户端
func authConfigured() bool {
	return config.GetString("cloudbase.env_id") != "" && config.GetString("cloudbase.auth_client_id") != ""
}
