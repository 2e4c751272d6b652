// Package policies 访问控制判断，只依赖已解析的身份与已查询的数据行，无副作用
package policies

import (
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/photo"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
)

// Actor 发起操作的身份
type Actor struct {
	Role   string
	UserID int64
	OpenID string
}

func (a Actor) role() string {
	return strings.ToLower(strings.TrimSpace(a.Role))
}

// IsPrivileged 组织者或管理员
func IsPrivileged(a Actor) bool {
	r := a.role()
	return r == user.RoleAdmin || r == user.RoleOrganizer
}

// IsAdmin 管理员
func IsAdmin(a Actor) bool {
	return a.role() == user.RoleAdmin
}

// IsParticipant 报名记录中是否有该身份，先按用户 ID 匹配，无匹配时再按 openid 匹配
func IsParticipant(a Actor, rows []participant.Participant) bool {
	if a.UserID != 0 {
		for i := range rows {
			if rows[i].UserID != nil && *rows[i].UserID == a.UserID {
				return true
			}
		}
	}
	if a.OpenID == "" {
		return false
	}
	for i := range rows {
		if rows[i].UserOpenID == a.OpenID {
			return true
		}
	}
	return false
}

// CanViewAlbum 可查看相册：组织者、管理员或本赛事参赛者
func CanViewAlbum(a Actor, registration *participant.Participant) bool {
	return IsPrivileged(a) || registration != nil
}

// CanUploadAlbum 可上传照片，与查看权限一致
func CanUploadAlbum(a Actor, registration *participant.Participant) bool {
	return CanViewAlbum(a, registration)
}

// CanDeletePhoto 可删除照片：组织者、管理员或上传者本人
func CanDeletePhoto(a Actor, p *photo.Photo) bool {
	if IsPrivileged(a) {
		return true
	}
	return p != nil && p.UploadedBy(a.UserID, a.OpenID)
}

// CanManageEvents 可创建、编辑赛事
func CanManageEvents(a Actor) bool {
	return IsPrivileged(a)
}

// CanManageUsers 可查看用户列表、修改角色
func CanManageUsers(a Actor) bool {
	return IsAdmin(a)
}
