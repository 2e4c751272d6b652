package bffclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
)

// MiniIdentity 小程序身份解析结果
type MiniIdentity struct {
	UserID       *int64     `json:"user_id"`
	OpenID       string     `json:"openid"`
	UnionID      string     `json:"unionid"`
	Profile      *user.User `json:"profile"`
	IdentityMode string     `json:"identity_mode"`
}

func newMiniIdentity(identity *services.Identity) *MiniIdentity {
	out := &MiniIdentity{
		OpenID:       identity.OpenID,
		UnionID:      identity.UnionID,
		Profile:      identity.Row.Profile(),
		IdentityMode: identity.Mode,
	}
	if identity.UserID > 0 {
		id := identity.UserID
		out.UserID = &id
	}
	return out
}

// Registration 报名请求
type Registration struct {
	Division string `json:"division"`
	TeamName string `json:"team_name,omitempty"`
	Note     string `json:"note,omitempty"`
}

// PhotoUpload 相册照片登记请求
type PhotoUpload struct {
	FileID      string `json:"file_id"`
	ThumbFileID string `json:"thumb_file_id,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`
	SizeBytes   *int64 `json:"size_bytes,omitempty"`
	ShotAt      string `json:"shot_at,omitempty"`
}

func pageQuery(page services.Page) url.Values {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(page.Offset))
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	return q
}

// ResolveMiniIdentity 解析小程序身份
func (c *Client) ResolveMiniIdentity(ctx context.Context) (*MiniIdentity, error) {
	return withFallback(c, "resolve_mini_identity", func() (*MiniIdentity, error) {
		var out MiniIdentity
		err := c.remote.call(ctx, http.MethodPost, "/v1/auth/mini/resolve", nil, map[string]interface{}{}, &out)
		return &out, err
	}, func() (*MiniIdentity, error) {
		return c.local.ResolveMiniIdentity(ctx)
	})
}

// GetMe 当前用户资料、参赛记录与成绩
func (c *Client) GetMe(ctx context.Context) (*services.Me, error) {
	return withFallback(c, "get_me", func() (*services.Me, error) {
		var out services.Me
		err := c.remote.call(ctx, http.MethodGet, "/v1/me", nil, nil, &out)
		return &out, err
	}, func() (*services.Me, error) {
		return c.local.GetMe(ctx)
	})
}

// UpdateMyProfile 局部更新资料，成功后清除角色缓存
func (c *Client) UpdateMyProfile(ctx context.Context, body map[string]interface{}) (*user.User, error) {
	profile, err := withFallback(c, "update_my_profile", func() (*user.User, error) {
		var out struct {
			Profile *user.User `json:"profile"`
		}
		err := c.remote.call(ctx, http.MethodPatch, "/v1/me/profile", nil, body, &out)
		return out.Profile, err
	}, func() (*user.User, error) {
		return c.local.UpdateMyProfile(ctx, body)
	})
	if err == nil {
		c.InvalidateRole(ctx)
	}
	return profile, err
}

// ListEvents 赛事列表
func (c *Client) ListEvents(ctx context.Context, page services.Page) (*services.EventList, error) {
	return withFallback(c, "list_events", func() (*services.EventList, error) {
		var out services.EventList
		err := c.remote.call(ctx, http.MethodGet, "/v1/events", pageQuery(page), nil, &out)
		return &out, err
	}, func() (*services.EventList, error) {
		return c.local.ListEvents(ctx, page)
	})
}

// GetEventDetail 赛事详情
func (c *Client) GetEventDetail(ctx context.Context, eventID int64) (*services.EventDetail, error) {
	return withFallback(c, "get_event_detail", func() (*services.EventDetail, error) {
		var out services.EventDetail
		err := c.remote.call(ctx, http.MethodGet, fmt.Sprintf("/v1/events/%d", eventID), nil, nil, &out)
		return &out, err
	}, func() (*services.EventDetail, error) {
		return c.local.GetEventDetail(ctx, eventID)
	})
}

// GetMyRegistration 当前用户的报名状态
func (c *Client) GetMyRegistration(ctx context.Context, eventID int64) (*services.RegistrationStatus, error) {
	return withFallback(c, "get_my_registration", func() (*services.RegistrationStatus, error) {
		var out services.RegistrationStatus
		err := c.remote.call(ctx, http.MethodGet, fmt.Sprintf("/v1/events/%d/registration/me", eventID), nil, nil, &out)
		return &out, err
	}, func() (*services.RegistrationStatus, error) {
		return c.local.GetMyRegistration(ctx, eventID)
	})
}

// CreateRegistration 报名
func (c *Client) CreateRegistration(ctx context.Context, eventID int64, in Registration) (*participant.Participant, error) {
	return withFallback(c, "create_registration", func() (*participant.Participant, error) {
		var out struct {
			Registration *participant.Participant `json:"registration"`
		}
		err := c.remote.call(ctx, http.MethodPost, fmt.Sprintf("/v1/events/%d/registrations", eventID), nil, in, &out)
		return out.Registration, err
	}, func() (*participant.Participant, error) {
		return c.local.CreateRegistration(ctx, eventID, in)
	})
}

// GetUserByOpenid 按 openid 查询公开资料
func (c *Client) GetUserByOpenid(ctx context.Context, openid string) (*services.PublicProfile, error) {
	return withFallback(c, "get_user_by_openid", func() (*services.PublicProfile, error) {
		var out services.PublicProfile
		err := c.remote.call(ctx, http.MethodGet, "/v1/users/by-openid/"+url.PathEscape(openid), nil, nil, &out)
		return &out, err
	}, func() (*services.PublicProfile, error) {
		return c.local.GetUserByOpenid(ctx, openid)
	})
}

// GetEventAlbumSummary 相册概要
func (c *Client) GetEventAlbumSummary(ctx context.Context, eventID int64) (*services.AlbumSummary, error) {
	return withFallback(c, "get_event_album_summary", func() (*services.AlbumSummary, error) {
		var out services.AlbumSummary
		err := c.remote.call(ctx, http.MethodGet, fmt.Sprintf("/v1/events/%d/album/summary", eventID), nil, nil, &out)
		return &out, err
	}, func() (*services.AlbumSummary, error) {
		return c.local.GetEventAlbumSummary(ctx, eventID)
	})
}

// GetEventAlbum 相册照片列表
func (c *Client) GetEventAlbum(ctx context.Context, eventID int64, page services.Page) (*services.AlbumPage, error) {
	return withFallback(c, "get_event_album", func() (*services.AlbumPage, error) {
		var out services.AlbumPage
		err := c.remote.call(ctx, http.MethodGet, fmt.Sprintf("/v1/events/%d/album", eventID), pageQuery(page), nil, &out)
		return &out, err
	}, func() (*services.AlbumPage, error) {
		return c.local.GetEventAlbum(ctx, eventID, page)
	})
}

// CreateEventAlbumPhoto 登记相册照片，只能由 BFF 完成
func (c *Client) CreateEventAlbumPhoto(ctx context.Context, eventID int64, in PhotoUpload) (*services.PhotoView, error) {
	return withoutFallback(func() (*services.PhotoView, error) {
		var out struct {
			Photo *services.PhotoView `json:"photo"`
		}
		err := c.remote.call(ctx, http.MethodPost, fmt.Sprintf("/v1/events/%d/album/photos", eventID), nil, in, &out)
		return out.Photo, err
	}, ErrUploadUnavailable)
}

// GetEventAlbumPhotoDownloadURL 照片下载地址
func (c *Client) GetEventAlbumPhotoDownloadURL(ctx context.Context, eventID, photoID int64) (*services.PhotoDownload, error) {
	return withFallback(c, "get_event_album_photo_download_url", func() (*services.PhotoDownload, error) {
		var out services.PhotoDownload
		path := fmt.Sprintf("/v1/events/%d/album/photos/%d/download", eventID, photoID)
		err := c.remote.call(ctx, http.MethodGet, path, nil, nil, &out)
		return &out, err
	}, func() (*services.PhotoDownload, error) {
		return c.local.GetEventAlbumPhotoDownloadURL(ctx, eventID, photoID)
	})
}

// DeleteEventAlbumPhoto 删除相册照片，只能由 BFF 完成
func (c *Client) DeleteEventAlbumPhoto(ctx context.Context, eventID, photoID int64) (*services.PhotoDeletion, error) {
	return withoutFallback(func() (*services.PhotoDeletion, error) {
		var out services.PhotoDeletion
		err := c.remote.call(ctx, http.MethodDelete, fmt.Sprintf("/v1/events/%d/album/photos/%d", eventID, photoID), nil, nil, &out)
		return &out, err
	}, ErrDeleteUnavailable)
}

// Role 当前用户角色，结果按 openid 缓存
func (c *Client) Role(ctx context.Context) (string, error) {
	openid := c.currentOpenID(ctx)
	if openid != "" {
		if role, ok := c.roles.Get(openid); ok {
			return role, nil
		}
	}

	role, err := withFallback(c, "role", func() (string, error) {
		var out struct {
			Role string `json:"role"`
		}
		err := c.remote.call(ctx, http.MethodGet, "/v1/me/role", nil, nil, &out)
		return out.Role, err
	}, func() (string, error) {
		return c.local.Role(ctx)
	})
	if err != nil {
		return "", err
	}
	if role == "" {
		role = user.RoleRunner
	}
	if openid != "" {
		c.roles.Set(openid, role)
	}
	return role, nil
}

// InvalidateRole 清除当前用户的角色缓存
func (c *Client) InvalidateRole(ctx context.Context) {
	c.roles.Invalidate(c.currentOpenID(ctx))
}

func (c *Client) currentOpenID(ctx context.Context) string {
	if c.openids == nil {
		return ""
	}
	openid, err := c.openids.OpenID(ctx)
	if err != nil {
		return ""
	}
	return openid
}
