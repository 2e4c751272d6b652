package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/policies"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// 身份模式
const (
	ModeIdentity = "identity"
	ModeLegacy   = "legacy"
)

// Identity 解析后的调用方身份
type Identity struct {
	Mode        string                `json:"identity_mode"`
	UserID      int64                 `json:"user_id"`
	OpenID      string                `json:"openid"`
	UnionID     string                `json:"unionid"`
	AppID       string                `json:"appid"`
	Row         *user.User            `json:"-"` // 当前资料快照，可能为 nil
	AuthProfile cloudbase.AuthProfile `json:"-"`
}

// Role 当前角色，无资料时为 runner
func (i *Identity) Role() string {
	if i == nil {
		return user.RoleRunner
	}
	return i.Row.RoleName()
}

// Actor 转换为访问控制使用的身份
func (i *Identity) Actor() policies.Actor {
	if i == nil {
		return policies.Actor{Role: user.RoleRunner}
	}
	return policies.Actor{Role: i.Role(), UserID: i.UserID, OpenID: i.OpenID}
}

// Claim 待映射的第三方身份
type Claim struct {
	Provider    string
	ProviderUID string
	UnionID     string
	AppID       string
	OpenID      string
}

// IdentityStore 将第三方身份映射为用户，按数据库结构分为新版与旧版两个实现
type IdentityStore interface {
	Resolve(ctx context.Context, claim Claim) (*Identity, error)
}

// Capability 数据库结构探测结果
type Capability struct {
	// Linked app_users 与 identity_links 均可用
	Linked bool
	// UserLinkColumn users 表存在 user_id 列
	UserLinkColumn bool
}

// IdentityMapper 身份映射入口
//
// 启动时探测一次数据库结构并缓存，新版结构可用时走 identity_links，否则走旧版 users 表。
// 运行中新版结构读写出现 ErrSchemaMissing 时重新探测，确认新版表缺失后降级为旧版并重新解析
type IdentityMapper struct {
	backend repositories.Backend
	store   *repositories.Store
	legacy  IdentityStore

	mu         sync.RWMutex
	probed     bool
	capability Capability
}

// NewIdentityMapper 创建身份映射
func NewIdentityMapper(store *repositories.Store) *IdentityMapper {
	return &IdentityMapper{
		backend: store.Backend,
		store:   store,
		legacy:  NewLegacyIdentityStore(store),
	}
}

// Probe 探测数据库结构并缓存结果。探测因结构缺失以外的原因失败时不缓存，下次解析时重试
func (m *IdentityMapper) Probe(ctx context.Context) (Capability, error) {
	c, err := ProbeCapability(ctx, m.backend)
	if err != nil {
		return c, err
	}
	m.mu.Lock()
	m.capability, m.probed = c, true
	m.mu.Unlock()

	logger.Info("Identity", zap.Bool("linked", c.Linked), zap.Bool("user_link_column", c.UserLinkColumn))
	return c, nil
}

// Capability 当前缓存的结构探测结果
func (m *IdentityMapper) Capability() Capability {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.capability
}

func (m *IdentityMapper) current(ctx context.Context) Capability {
	m.mu.RLock()
	c, probed := m.capability, m.probed
	m.mu.RUnlock()
	if probed {
		return c
	}

	c, err := m.Probe(ctx)
	if err != nil {
		logger.WarnString("Identity", "Probe", err.Error())
		// 无法判断时先按新版结构处理，出现结构缺失再降级
		return Capability{Linked: true, UserLinkColumn: true}
	}
	return c
}

// confirmDowngrade 新版结构读写报告结构缺失后重新探测，确认新版表不可用时才降级。
// 新旧两套结构的用户 ID 不通用，探测结果仍为新版时返回原错误
func (m *IdentityMapper) confirmDowngrade(ctx context.Context, cause error) error {
	c, err := m.Probe(ctx)
	if err != nil {
		logger.WarnString("Identity", "Probe", err.Error())
		return cause
	}
	if c.Linked {
		return cause
	}
	logger.WarnString("Identity", "Downgrade", "新版身份表不可用，降级为旧版 users 表")
	return nil
}

// Resolve 将第三方身份映射为用户，首次出现时创建对应记录
func (m *IdentityMapper) Resolve(ctx context.Context, claim Claim) (*Identity, error) {
	claim.Provider = strings.TrimSpace(claim.Provider)
	claim.ProviderUID = strings.TrimSpace(claim.ProviderUID)
	if claim.Provider == "" || claim.ProviderUID == "" {
		return nil, ErrMissingProviderIdentity
	}

	c := m.current(ctx)
	if c.Linked {
		identity, err := NewLinkedIdentityStore(m.store, c.UserLinkColumn).Resolve(ctx, claim)
		if err == nil {
			return identity, nil
		}
		if claim.OpenID == "" || !errors.Is(err, repositories.ErrSchemaMissing) {
			return nil, err
		}
		if err := m.confirmDowngrade(ctx, err); err != nil {
			return nil, err
		}
	}

	if claim.OpenID == "" {
		return nil, fmt.Errorf("legacy identity requires openid: %w", ErrMissingProviderIdentity)
	}
	return m.legacy.Resolve(ctx, claim)
}

// ProbeCapability 轻量读取各身份表的必需列
func ProbeCapability(ctx context.Context, backend repositories.Backend) (Capability, error) {
	var c Capability

	linked, err := probeTable(ctx, backend, "identity_links", "id", "user_id", "provider", "provider_uid", "unionid")
	if err != nil {
		return c, err
	}
	if linked {
		linked, err = probeTable(ctx, backend, "app_users", "id", "status", "role")
		if err != nil {
			return c, err
		}
	}
	c.Linked = linked

	c.UserLinkColumn, err = probeTable(ctx, backend, "users", "id", "user_id")
	if err != nil {
		return c, err
	}
	return c, nil
}

func probeTable(ctx context.Context, backend repositories.Backend, table string, columns ...string) (bool, error) {
	err := backend.Probe(ctx, table, columns...)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrSchemaMissing):
		return false, nil
	default:
		return false, err
	}
}
