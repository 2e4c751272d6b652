package user

import (
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// ValidRoles 可分配的角色
var ValidRoles = []string{RoleRunner, RoleCoach, RoleOrganizer, RoleAdmin}

// IsValidRole 判断角色是否合法
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleName 当前角色（小写），未设置时为 runner
func (u *User) RoleName() string {
	if u == nil || strings.TrimSpace(u.Role) == "" {
		return RoleRunner
	}
	return strings.ToLower(strings.TrimSpace(u.Role))
}

// Profile 对外输出的资料，补齐默认值
func (u *User) Profile() *User {
	if u == nil {
		return &User{Role: RoleRunner, Tags: models.StringList{}}
	}
	p := *u
	p.DocOpenID = ""
	if strings.TrimSpace(p.Role) == "" {
		p.Role = RoleRunner
	}
	if p.Tags == nil {
		p.Tags = models.StringList{}
	}
	return &p
}

// ParseTags 解析标签，支持数组、JSON 字符串、逗号（含中文逗号）分隔字符串
func ParseTags(raw interface{}) models.StringList {
	return models.ParseStringList(raw)
}
