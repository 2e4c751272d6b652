// Package services 业务规则：身份映射、访问控制、报名、相册、资料与用户管理
//
// 规则只在此实现一次，底层通过 repositories.Store 访问数据，
// 服务端走云数据库 REST 适配器，客户端降级路径走直连适配器
package services

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
)

// Options 可选依赖
type Options struct {
	Clock clock.Clock
	// Auth 身份认证服务，为 nil 时不支持 Bearer token 与 iOS 登录
	Auth AuthClient
	// Signer 云存储下载地址，为 nil 时下载地址为空
	Signer FileURLSigner
	// Recorder 下载计数，为 nil 时同步读后写
	Recorder DownloadRecorder

	ProfileCacheSize int
	ProfileCacheTTL  time.Duration
}

// Services 业务服务集合
type Services struct {
	Store         *repositories.Store
	Identity      *IdentityMapper
	Resolver      *IdentityResolver
	Auth          *AuthService
	Events        *EventService
	Registrations *RegistrationService
	Album         *AlbumService
	Profiles      *ProfileService
	Users         *UserService
}

// New 基于同一个存储端口组装全部服务
func New(store *repositories.Store, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	mapper := NewIdentityMapper(store)
	var auth AuthProvider = unavailableAuth{}
	if opts.Auth != nil {
		auth = opts.Auth
	}

	s := &Services{
		Store:         store,
		Identity:      mapper,
		Resolver:      NewIdentityResolver(mapper, auth, opts.ProfileCacheSize, opts.ProfileCacheTTL),
		Events:        NewEventService(store, opts.Clock),
		Registrations: NewRegistrationService(store),
		Album:         NewAlbumService(store, opts.Signer, opts.Recorder),
		Profiles:      NewProfileService(store),
		Users:         NewUserService(store),
	}
	if opts.Auth != nil {
		s.Auth = NewAuthService(opts.Auth, mapper)
	}
	return s
}
