package bffclient

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultRoleTTL 角色缓存有效期
const DefaultRoleTTL = 5 * time.Minute

type roleEntry struct {
	role      string
	expiresAt time.Time
}

// RoleCache 按 openid 缓存角色
type RoleCache struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	entries map[string]roleEntry
}

// NewRoleCache 创建角色缓存，ttl 不大于 0 时使用 DefaultRoleTTL
func NewRoleCache(clk clock.Clock, ttl time.Duration) *RoleCache {
	if clk == nil {
		clk = clock.New()
	}
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &RoleCache{clock: clk, ttl: ttl, entries: make(map[string]roleEntry)}
}

// Get 读取未过期的角色
func (c *RoleCache) Get(openid string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[openid]
	if !ok {
		return "", false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, openid)
		return "", false
	}
	return entry.role, true
}

// Set 写入角色
func (c *RoleCache) Set(openid, role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[openid] = roleEntry{role: role, expiresAt: c.clock.Now().Add(c.ttl)}
}

// Invalidate 清除 openid 的缓存，openid 为空时全部清除
func (c *RoleCache) Invalidate(openid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if openid == "" {
		c.entries = make(map[string]roleEntry)
		return
	}
	delete(c.entries, openid)
}
