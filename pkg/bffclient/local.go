package bffclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
)

// Local 直连存储执行与 BFF 相同的动作
type Local struct {
	svc     *services.Services
	openids OpenidSource
}

// NewLocal 创建本地执行器
func NewLocal(svc *services.Services, openids OpenidSource) *Local {
	return &Local{svc: svc, openids: openids}
}

// identity 以当前 openid 解析小程序身份
func (l *Local) identity(ctx context.Context) (*services.Identity, error) {
	if l.openids == nil {
		return nil, ErrOpenID
	}
	openid, err := l.openids.OpenID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenID, err)
	}
	identity, err := l.svc.Resolver.ResolveMini(ctx, services.MiniClaim{OpenID: openid})
	if err != nil {
		return nil, services.ErrMiniIdentityFailed.WithDetail(err.Error())
	}
	return identity, nil
}

// ResolveMiniIdentity 解析小程序身份
func (l *Local) ResolveMiniIdentity(ctx context.Context) (*MiniIdentity, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	return newMiniIdentity(identity), nil
}

// GetMe 当前用户资料
func (l *Local) GetMe(ctx context.Context) (*services.Me, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	me, err := l.svc.Profiles.Me(ctx, identity)
	if err != nil {
		return nil, services.Classify(err, services.ErrMeQueryFailed)
	}
	return me, nil
}

// Role 当前用户角色
func (l *Local) Role(ctx context.Context) (string, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return "", err
	}
	return l.svc.Profiles.Role(identity), nil
}

// UpdateMyProfile 局部更新资料
func (l *Local) UpdateMyProfile(ctx context.Context, body map[string]interface{}) (*user.User, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := l.svc.Profiles.UpdateProfile(ctx, identity, services.NewProfilePatch(body))
	if err != nil {
		return nil, services.Classify(err, services.ErrProfileUpdateFailed)
	}
	return profile, nil
}

// ListEvents 赛事列表
func (l *Local) ListEvents(ctx context.Context, page services.Page) (*services.EventList, error) {
	list, err := l.svc.Events.List(ctx, page.Normalize(services.EventsDefaultLimit, services.EventsMaxLimit))
	if err != nil {
		return nil, services.Classify(err, services.ErrEventsQueryFailed)
	}
	return list, nil
}

// GetEventDetail 赛事详情
func (l *Local) GetEventDetail(ctx context.Context, eventID int64) (*services.EventDetail, error) {
	detail, err := l.svc.Events.Detail(ctx, eventID)
	if err != nil {
		return nil, services.Classify(err, services.ErrEventDetailFailed)
	}
	return detail, nil
}

// GetMyRegistration 当前用户的报名状态
func (l *Local) GetMyRegistration(ctx context.Context, eventID int64) (*services.RegistrationStatus, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	status, err := l.svc.Registrations.Mine(ctx, identity, eventID)
	if err != nil {
		return nil, services.Classify(err, services.ErrRegistrationCheck)
	}
	return status, nil
}

// CreateRegistration 报名
func (l *Local) CreateRegistration(ctx context.Context, eventID int64, in Registration) (*participant.Participant, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	row, err := l.svc.Registrations.Create(ctx, identity, eventID, services.RegistrationInput{
		Division: services.Truncate("division", strings.TrimSpace(in.Division)),
		TeamName: services.Truncate("team_name", strings.TrimSpace(in.TeamName)),
		Note:     services.Truncate("note", strings.TrimSpace(in.Note)),
	})
	if err != nil {
		return nil, services.Classify(err, services.ErrRegistrationCreate)
	}
	return row, nil
}

// GetUserByOpenid 按 openid 查询公开资料
func (l *Local) GetUserByOpenid(ctx context.Context, openid string) (*services.PublicProfile, error) {
	profile, err := l.svc.Profiles.ByOpenID(ctx, strings.TrimSpace(openid))
	if err != nil {
		return nil, services.Classify(err, services.ErrUserQueryFailed)
	}
	return profile, nil
}

// GetEventAlbumSummary 相册概要。本地结果不允许上传
func (l *Local) GetEventAlbumSummary(ctx context.Context, eventID int64) (*services.AlbumSummary, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := l.svc.Album.Summary(ctx, identity, eventID)
	if err != nil {
		return nil, services.Classify(err, services.ErrAlbumSummaryFailed)
	}
	summary.CanUpload = false
	summary.BackendUnavailable = true
	return summary, nil
}

// GetEventAlbum 相册照片列表
func (l *Local) GetEventAlbum(ctx context.Context, eventID int64, page services.Page) (*services.AlbumPage, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	album, err := l.svc.Album.List(ctx, identity, eventID, page.Normalize(services.AlbumDefaultLimit, services.AlbumMaxLimit))
	if err != nil {
		return nil, services.Classify(err, services.ErrAlbumListFailed)
	}
	return album, nil
}

// GetEventAlbumPhotoDownloadURL 照片下载地址
func (l *Local) GetEventAlbumPhotoDownloadURL(ctx context.Context, eventID, photoID int64) (*services.PhotoDownload, error) {
	identity, err := l.identity(ctx)
	if err != nil {
		return nil, err
	}
	download, err := l.svc.Album.Download(ctx, identity, eventID, photoID)
	if err != nil {
		return nil, services.Classify(err, services.ErrAlbumDownloadFailed)
	}
	return download, nil
}
