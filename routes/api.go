// Package routes 注册路由
package routes

import (
	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1/auth"
	"github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1/events"
	"github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1/me"
	"github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1/users"
	"github.com/boshenzh/werox-wechat-mini-program/app/http/middlewares"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// 路由限流默认值，可由 limit.* 配置覆盖
const (
	// 🌍 全局限流：每小时每IP 30000 请求
	GlobalRateLimit = "30000-H"
	// 📝 报名：每分钟每用户 10 次
	RegistrationLimit = "10-M"
	// 📷 相册上传：每分钟每用户 20 次
	AlbumUploadLimit = "20-M"
	// 👤 资料更新：每分钟每用户 10 次
	ProfileUpdateLimit = "10-M"
)

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, svc *services.Services) {
	r.GET("/health", v1.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1Group := r.Group("/v1")
	v1Group.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(config.GetString("limit.global", GlobalRateLimit)),
	)

	identity := middlewares.AttachIdentity(svc.Resolver, false)

	// 🔐 登录与身份解析，不做用户级限流
	authRoutes := v1Group.Group("/auth")
	{
		ac := auth.NewAuthController(svc)

		// POST /v1/auth/mini/resolve
		authRoutes.POST("/mini/resolve", ac.ResolveMini)
		// POST /v1/auth/ios/wechat/signin
		authRoutes.POST("/ios/wechat/signin", ac.IOSWechatSignin)
	}

	// 🏃 赛事、报名与相册
	eventRoutes := v1Group.Group("/events")
	{
		ec := events.NewEventController(svc)
		rc := events.NewRegistrationController(svc)
		alc := events.NewAlbumController(svc)

		// 公开读取
		eventRoutes.GET("", ec.Index)
		eventRoutes.GET("/:id", ec.Show)

		// 赛事管理，仅组织者与管理员
		eventRoutes.POST("", identity, ec.Store)
		eventRoutes.PATCH("/:id", identity, ec.Update)

		eventRoutes.GET("/:id/registration/me", identity, rc.Mine)
		// 请求频率：每分钟每用户最多 10 次
		eventRoutes.POST("/:id/registrations",
			identity,
			middlewares.LimitPerRoute(config.GetString("limit.registration", RegistrationLimit)),
			rc.Store,
		)

		eventRoutes.GET("/:id/album/summary", identity, alc.Summary)
		eventRoutes.GET("/:id/album", identity, alc.Index)
		// 请求频率：每分钟每用户最多 20 次
		eventRoutes.POST("/:id/album/photos",
			identity,
			middlewares.LimitPerRoute(config.GetString("limit.album_upload", AlbumUploadLimit), "上传过于频繁，请稍后再试"),
			alc.Store,
		)
		eventRoutes.GET("/:id/album/photos/:photoId/download", identity, alc.Download)
		eventRoutes.DELETE("/:id/album/photos/:photoId", identity, alc.Destroy)
	}

	// 👤 当前用户
	meRoutes := v1Group.Group("/me", identity)
	{
		mc := me.NewMeController(svc)

		meRoutes.GET("", mc.Show)
		meRoutes.GET("/role", mc.Role)
		// 请求频率：每分钟每用户最多 10 次
		meRoutes.PATCH("/profile",
			middlewares.LimitPerRoute(config.GetString("limit.profile_update", ProfileUpdateLimit), "更新过于频繁，请稍后再试"),
			mc.UpdateProfile,
		)
	}

	// 🛠 用户管理
	userRoutes := v1Group.Group("/users", identity)
	{
		uc := users.NewUsersController(svc)

		userRoutes.GET("", uc.Index)
		userRoutes.PATCH("/:id/role", uc.UpdateRole)
		userRoutes.GET("/by-openid/:openid", uc.ShowByOpenID)
	}
}
