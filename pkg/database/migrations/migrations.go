package migrations

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models/appuser"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/identitylink"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/photo"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/station"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&user.User{},
		&appuser.AppUser{},
		&identitylink.IdentityLink{},
		&event.Event{},
		&station.Station{},
		&participant.Participant{},
		&photo.Photo{},
	}
}

// LegacyTables 仅包含旧版单表结构，用于未迁移数据库
func LegacyTables() []interface{} {
	return []interface{}{
		&user.User{},
		&event.Event{},
		&station.Station{},
		&participant.Participant{},
		&photo.Photo{},
	}
}
