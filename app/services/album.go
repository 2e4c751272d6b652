package services

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cast"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/photo"
	"github.com/boshenzh/werox-wechat-mini-program/app/policies"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// 相册分页
const (
	AlbumDefaultLimit = 20
	AlbumMaxLimit     = 50
)

// FileURLSigner 云存储临时下载地址
type FileURLSigner interface {
	SignedURL(ctx context.Context, fileID string) (cloudbase.DownloadInfo, error)
}

// DownloadRecorder 记录照片下载次数
type DownloadRecorder interface {
	Record(ctx context.Context, photoID int64) error
}

// InlineRecorder 在请求内读取后写回下载次数
//
// 存储接口没有原子自增，并发下载时计数可能偏少，仅用于统计
type InlineRecorder struct {
	photos *repositories.PhotoRepository
}

// NewInlineRecorder 创建同步计数器
func NewInlineRecorder(photos *repositories.PhotoRepository) *InlineRecorder {
	return &InlineRecorder{photos: photos}
}

// Record 下载次数加一
func (r *InlineRecorder) Record(ctx context.Context, photoID int64) error {
	p, err := r.photos.FindByID(ctx, photoID)
	if err != nil {
		return err
	}
	return r.photos.SetDownloadCount(ctx, photoID, p.DownloadCount+1)
}

// AlbumSummary 相册概要
type AlbumSummary struct {
	EventID            int64 `json:"event_id"`
	TotalPhotos        int64 `json:"total_photos"`
	CanView            bool  `json:"can_view"`
	CanUpload          bool  `json:"can_upload"`
	BackendUnavailable bool  `json:"backend_unavailable,omitempty"`
}

// PhotoView 照片及当前身份是否可删除
type PhotoView struct {
	photo.Photo
	CanDelete bool `json:"can_delete"`
}

// AlbumPage 相册分页结果
type AlbumPage struct {
	Photos     []PhotoView `json:"photos"`
	Pagination Pagination  `json:"pagination"`
}

// PhotoInput 上传登记参数
type PhotoInput struct {
	FileID      string
	ThumbFileID string
	FilePath    string
	MimeType    string
	Width       *int
	Height      *int
	SizeBytes   *int64
	ShotAt      string
}

// PhotoDownload 下载地址，获取失败时地址为空，由客户端按 file_id 自行获取
type PhotoDownload struct {
	PhotoID            int64  `json:"photo_id"`
	DownloadURL        string `json:"download_url"`
	DownloadURLEncoded string `json:"download_url_encoded"`
	FileID             string `json:"file_id"`
}

// PhotoDeletion 删除结果
type PhotoDeletion struct {
	PhotoID int64 `json:"photo_id"`
	Deleted bool  `json:"deleted"`
}

// AlbumService 赛事相册
type AlbumService struct {
	store    *repositories.Store
	signer   FileURLSigner
	recorder DownloadRecorder
}

// NewAlbumService 创建相册服务，signer 为 nil 时下载地址始终为空
func NewAlbumService(store *repositories.Store, signer FileURLSigner, recorder DownloadRecorder) *AlbumService {
	if recorder == nil {
		recorder = NewInlineRecorder(store.Photos)
	}
	return &AlbumService{store: store, signer: signer, recorder: recorder}
}

// Summary 相册概要，报名记录查询失败按非参赛者处理
func (s *AlbumService) Summary(ctx context.Context, identity *Identity, eventID int64) (*AlbumSummary, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	registration, err := FindRegistration(ctx, s.store, eventID, identity)
	if err != nil {
		logger.LogWarnIf(err)
		registration = nil
	}
	actor := identity.Actor()

	total, err := s.store.Photos.CountActive(ctx, eventID)
	if err != nil && !errors.Is(err, repositories.ErrSchemaMissing) {
		return nil, err
	}

	return &AlbumSummary{
		EventID:     eventID,
		TotalPhotos: total,
		CanView:     policies.CanViewAlbum(actor, registration),
		CanUpload:   policies.CanUploadAlbum(actor, registration),
	}, nil
}

// List 正常照片分页
func (s *AlbumService) List(ctx context.Context, identity *Identity, eventID int64, page Page) (*AlbumPage, error) {
	page = page.Normalize(AlbumDefaultLimit, AlbumMaxLimit)
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	registration, err := FindRegistration(ctx, s.store, eventID, identity)
	if err != nil {
		return nil, err
	}
	actor := identity.Actor()
	if !policies.CanViewAlbum(actor, registration) {
		return nil, ErrAlbumForbidden
	}

	rows, err := s.store.Photos.ListActive(ctx, eventID, page.Offset, page.Limit+1)
	if err != nil {
		if !errors.Is(err, repositories.ErrSchemaMissing) {
			return nil, err
		}
		rows = nil
	}

	result := &AlbumPage{Photos: []PhotoView{}, Pagination: newPagination(page, len(rows))}
	for i := range rows {
		if i >= page.Limit {
			break
		}
		result.Photos = append(result.Photos, PhotoView{
			Photo:     rows[i],
			CanDelete: policies.CanDeletePhoto(actor, &rows[i]),
		})
	}
	return result, nil
}

// Upload 登记已上传到云存储的照片
func (s *AlbumService) Upload(ctx context.Context, identity *Identity, eventID int64, in PhotoInput) (*PhotoView, error) {
	fileID := strings.TrimSpace(in.FileID)
	if !photo.IsCloudFileID(fileID) {
		return nil, ErrInvalidFileID
	}
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	registration, err := FindRegistration(ctx, s.store, eventID, identity)
	if err != nil {
		return nil, err
	}
	actor := identity.Actor()
	if !policies.CanUploadAlbum(actor, registration) {
		return nil, ErrAlbumUploadDenied
	}

	p := &photo.Photo{
		EventID:        eventID,
		FileID:         fileID,
		ThumbFileID:    strings.TrimSpace(in.ThumbFileID),
		FilePath:       strings.TrimSpace(in.FilePath),
		MimeType:       strings.TrimSpace(in.MimeType),
		Width:          in.Width,
		Height:         in.Height,
		SizeBytes:      in.SizeBytes,
		Status:         photo.StatusActive,
		UploaderOpenID: identity.OpenID,
		UploaderRole:   identity.Role(),
	}
	if identity.UserID != 0 {
		userID := identity.UserID
		p.UploaderUserID = &userID
	}
	if shotAt := strings.TrimSpace(in.ShotAt); shotAt != "" {
		t, err := cast.ToTimeE(shotAt)
		if err != nil {
			return nil, ErrInvalidParams.WithDetail("shot_at")
		}
		dt := models.DateTime(t)
		p.ShotAt = &dt
	}

	if err := s.store.Photos.Create(ctx, p); err != nil {
		return nil, err
	}
	return &PhotoView{Photo: *p, CanDelete: policies.CanDeletePhoto(actor, p)}, nil
}

// Download 获取临时下载地址并记录下载次数
func (s *AlbumService) Download(ctx context.Context, identity *Identity, eventID, photoID int64) (*PhotoDownload, error) {
	registration, err := FindRegistration(ctx, s.store, eventID, identity)
	if err != nil {
		return nil, err
	}
	if !policies.CanViewAlbum(identity.Actor(), registration) {
		return nil, ErrAlbumDownloadDenied
	}

	p, err := s.findPhoto(ctx, eventID, photoID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrPhotoNotFound
	}

	result := &PhotoDownload{PhotoID: photoID, FileID: p.FileID}
	if s.signer != nil {
		info, err := s.signer.SignedURL(ctx, p.FileID)
		switch {
		case err != nil:
			logger.WarnString("Album", "SignedURL", err.Error())
		case info.Code == "" && info.DownloadURL != "":
			result.DownloadURL = info.DownloadURL
			result.DownloadURLEncoded = info.DownloadURLEncoded
			if result.DownloadURLEncoded == "" {
				result.DownloadURLEncoded = info.DownloadURL
			}
		}
	}

	if err := s.recorder.Record(ctx, photoID); err != nil {
		logger.WarnString("Album", "DownloadCount", err.Error())
	}
	return result, nil
}

// Delete 软删除照片，仅上传者、组织者与管理员可操作
func (s *AlbumService) Delete(ctx context.Context, identity *Identity, eventID, photoID int64) (*PhotoDeletion, error) {
	p, err := s.findPhoto(ctx, eventID, photoID)
	if err != nil {
		return nil, err
	}
	if !policies.CanDeletePhoto(identity.Actor(), p) {
		return nil, ErrAlbumDeleteDenied
	}
	if err := s.store.Photos.SetStatus(ctx, photoID, photo.StatusDeleted); err != nil {
		return nil, err
	}
	return &PhotoDeletion{PhotoID: photoID, Deleted: true}, nil
}

func (s *AlbumService) ensureEvent(ctx context.Context, eventID int64) error {
	_, err := s.store.Events.Find(ctx, eventID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

func (s *AlbumService) findPhoto(ctx context.Context, eventID, photoID int64) (*photo.Photo, error) {
	p, err := s.store.Photos.Find(ctx, eventID, photoID)
	if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrSchemaMissing) {
		return nil, ErrPhotoNotFound
	}
	return p, err
}
