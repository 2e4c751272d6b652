package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/photo"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
)

// MockSigner 临时下载地址模拟
type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) SignedURL(ctx context.Context, fileID string) (cloudbase.DownloadInfo, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(cloudbase.DownloadInfo), args.Error(1)
}

// albumFixture 一场赛事、一名参赛者与一名路人
func albumFixture(t *testing.T, opts Options) (*fixture, *event.Event, *Identity, *Identity) {
	t.Helper()
	f := newFixture(t, opts)
	e := f.createEvent(t, event.Event{Title: "Album"})
	member := f.miniIdentity(t, "o-member")
	stranger := f.miniIdentity(t, "o-stranger")

	_, err := f.svc.Registrations.Create(context.Background(), member, e.ID, RegistrationInput{Division: "Open"})
	require.NoError(t, err)
	return f, e, member, stranger
}

func TestAlbumSummary(t *testing.T) {
	ctx := context.Background()
	f, e, member, stranger := albumFixture(t, Options{})

	s, err := f.svc.Album.Summary(ctx, member, e.ID)
	require.NoError(t, err)
	assert.True(t, s.CanView)
	assert.True(t, s.CanUpload)
	assert.EqualValues(t, 0, s.TotalPhotos)

	s, err = f.svc.Album.Summary(ctx, stranger, e.ID)
	require.NoError(t, err)
	assert.False(t, s.CanView)
	assert.False(t, s.CanUpload)

	admin := f.withRole(t, stranger, "admin")
	s, err = f.svc.Album.Summary(ctx, admin, e.ID)
	require.NoError(t, err)
	assert.True(t, s.CanView)

	_, err = f.svc.Album.Summary(ctx, member, e.ID+100)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestAlbumUploadAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("文件 ID 校验", func(t *testing.T) {
		f, e, member, _ := albumFixture(t, Options{})
		_, err := f.svc.Album.Upload(ctx, member, e.ID, PhotoInput{FileID: "https://example.com/a.jpg"})
		assert.ErrorIs(t, err, ErrInvalidFileID)
		assert.EqualValues(t, 0, f.count(t, "event_album_photos"))
	})

	t.Run("非参赛者不能上传与浏览", func(t *testing.T) {
		f, e, _, stranger := albumFixture(t, Options{})
		_, err := f.svc.Album.Upload(ctx, stranger, e.ID, PhotoInput{FileID: "cloud://env/a.jpg"})
		assert.ErrorIs(t, err, ErrAlbumUploadDenied)

		_, err = f.svc.Album.List(ctx, stranger, e.ID, Page{})
		assert.ErrorIs(t, err, ErrAlbumForbidden)
	})

	t.Run("分页", func(t *testing.T) {
		f, e, member, _ := albumFixture(t, Options{})
		for _, id := range []string{"cloud://env/1.jpg", "cloud://env/2.jpg", "cloud://env/3.jpg"} {
			view, err := f.svc.Album.Upload(ctx, member, e.ID, PhotoInput{FileID: id, ShotAt: "2026-05-01 09:30:00"})
			require.NoError(t, err)
			assert.True(t, view.CanDelete)
			assert.Equal(t, photo.StatusActive, view.Status)
			require.NotNil(t, view.ShotAt)
		}

		first, err := f.svc.Album.List(ctx, member, e.ID, Page{Offset: 0, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first.Photos, 2)
		assert.True(t, first.Pagination.HasMore)
		require.NotNil(t, first.Pagination.NextOffset)
		assert.Equal(t, 2, *first.Pagination.NextOffset)

		second, err := f.svc.Album.List(ctx, member, e.ID, Page{Offset: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, second.Photos, 1)
		assert.False(t, second.Pagination.HasMore)
		assert.Nil(t, second.Pagination.NextOffset)

		s, err := f.svc.Album.Summary(ctx, member, e.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, s.TotalPhotos)
	})

	t.Run("拍摄时间格式错误", func(t *testing.T) {
		f, e, member, _ := albumFixture(t, Options{})
		_, err := f.svc.Album.Upload(ctx, member, e.ID, PhotoInput{FileID: "cloud://env/x.jpg", ShotAt: "not-a-time"})
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestAlbumDelete(t *testing.T) {
	ctx := context.Background()
	f, e, member, stranger := albumFixture(t, Options{})

	view, err := f.svc.Album.Upload(ctx, member, e.ID, PhotoInput{FileID: "cloud://env/del.jpg"})
	require.NoError(t, err)

	_, err = f.svc.Album.Delete(ctx, stranger, e.ID, view.ID)
	assert.ErrorIs(t, err, ErrAlbumDeleteDenied)

	res, err := f.svc.Album.Delete(ctx, member, e.ID, view.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	row, err := f.store.Photos.Find(ctx, e.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, photo.StatusDeleted, row.Status)

	page, err := f.svc.Album.List(ctx, member, e.ID, Page{})
	require.NoError(t, err)
	assert.Empty(t, page.Photos)

	_, err = f.svc.Album.Download(ctx, member, e.ID, view.ID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)

	_, err = f.svc.Album.Delete(ctx, member, e.ID, view.ID+100)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestAlbumDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("签名地址与下载计数", func(t *testing.T) {
		signer := new(MockSigner)
		f, e, member, stranger := albumFixture(t, Options{Signer: signer})
		view, err := f.svc.Album.Upload(ctx, member, e.ID, PhotoInput{FileID: "cloud://env/dl.jpg"})
		require.NoError(t, err)

		signer.On("SignedURL", mock.Anything, "cloud://env/dl.jpg").
			Return(cloudbase.DownloadInfo{DownloadURL: "https://cdn/dl.jpg"}, nil)

		d, err := f.svc.Album.Download(ctx, member, e.ID, view.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/dl.jpg", d.DownloadURL)
		assert.Equal(t, "https://cdn/dl.jpg", d.DownloadURLEncoded)
		assert.Equal(t, "cloud://env/dl.jpg", d.FileID)

		row, err := f.store.Photos.FindByID(ctx, view.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, row.DownloadCount)

		_, err = f.svc.Album.Download(ctx, stranger, e.ID, view.ID)
		assert.ErrorIs(t, err, ErrAlbumDownloadDenied)
	})

	t.Run("签名失败时返回空地址", func(t *testing.T) {
		signer := new(MockSigner)
		f, e, member, _ := albumFixture(t, Options{Signer: signer})
		view, err := f.svc.Album.Upload(ctx, member, e.ID, PhotoInput{FileID: "cloud://env/fail.jpg"})
		require.NoError(t, err)

		signer.On("SignedURL", mock.Anything, mock.Anything).Return(cloudbase.DownloadInfo{}, errors.New("timeout"))

		d, err := f.svc.Album.Download(ctx, member, e.ID, view.ID)
		require.NoError(t, err)
		assert.Empty(t, d.DownloadURL)
		assert.Equal(t, "cloud://env/fail.jpg", d.FileID)
	})
}
