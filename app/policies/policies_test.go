package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/photo"
)

func int64Ptr(v int64) *int64 { return &v }

func TestIsPrivileged(t *testing.T) {
	assert.True(t, IsPrivileged(Actor{Role: "admin"}))
	assert.True(t, IsPrivileged(Actor{Role: "Organizer"}))
	assert.False(t, IsPrivileged(Actor{Role: "coach"}))
	assert.False(t, IsPrivileged(Actor{}))

	assert.True(t, IsAdmin(Actor{Role: " ADMIN "}))
	assert.False(t, IsAdmin(Actor{Role: "organizer"}))
}

func TestIsParticipant(t *testing.T) {
	rows := []participant.Participant{
		{UserID: int64Ptr(7), UserOpenID: "o-seven"},
		{UserOpenID: "o-legacy"},
	}

	t.Run("按用户ID匹配", func(t *testing.T) {
		assert.True(t, IsParticipant(Actor{UserID: 7}, rows))
	})

	t.Run("用户ID未匹配时按openid匹配", func(t *testing.T) {
		assert.True(t, IsParticipant(Actor{UserID: 99, OpenID: "o-legacy"}, rows))
	})

	t.Run("无关身份", func(t *testing.T) {
		assert.False(t, IsParticipant(Actor{UserID: 99, OpenID: "o-other"}, rows))
		assert.False(t, IsParticipant(Actor{}, rows))
	})
}

func TestAlbumPermissions(t *testing.T) {
	registration := &participant.Participant{UserOpenID: "o-runner"}
	shapes := []*photo.Photo{
		nil,
		{},
		{UploaderOpenID: "o-uploader"},
		{UploaderUserID: int64Ptr(3)},
	}

	t.Run("特权角色始终放行", func(t *testing.T) {
		for _, role := range []string{"admin", "organizer"} {
			a := Actor{Role: role}
			assert.True(t, CanViewAlbum(a, nil))
			assert.True(t, CanUploadAlbum(a, nil))
			for _, p := range shapes {
				assert.True(t, CanDeletePhoto(a, p))
			}
		}
	})

	t.Run("无关的非参赛者全部拒绝", func(t *testing.T) {
		a := Actor{Role: "runner", UserID: 42, OpenID: "o-stranger"}
		assert.False(t, CanViewAlbum(a, nil))
		assert.False(t, CanUploadAlbum(a, nil))
		for _, p := range shapes {
			assert.False(t, CanDeletePhoto(a, p))
		}
	})

	t.Run("参赛者可查看与上传", func(t *testing.T) {
		a := Actor{Role: "runner", OpenID: "o-runner"}
		assert.True(t, CanViewAlbum(a, registration))
		assert.True(t, CanUploadAlbum(a, registration))
	})

	t.Run("上传者可删除", func(t *testing.T) {
		assert.True(t, CanDeletePhoto(Actor{OpenID: "o-uploader"}, shapes[2]))
		assert.True(t, CanDeletePhoto(Actor{UserID: 3}, shapes[3]))
	})
}
