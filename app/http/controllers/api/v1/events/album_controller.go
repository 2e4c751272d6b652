package events

import (
	v1 "github.com/boshenzh/werox-wechat-mini-program/app/http/controllers/api/v1"
	"github.com/boshenzh/werox-wechat-mini-program/app/requests"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
)

// AlbumController 赛事相册控制器
type AlbumController struct {
	v1.BaseAPIController
}

// NewAlbumController 创建相册控制器
func NewAlbumController(svc *services.Services) *AlbumController {
	return &AlbumController{BaseAPIController: v1.NewBaseAPIController(svc)}
}

// Summary 相册概要与权限
// GET /v1/events/:id/album/summary
func (ctrl *AlbumController) Summary(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	summary, err := ctrl.Services.Album.Summary(c.Request.Context(), ctrl.Identity(c), eventID)
	if err != nil {
		ctrl.Fail(c, err, services.ErrAlbumSummaryFailed)
		return
	}
	response.Data(c, summary)
}

// Index 照片列表
// GET /v1/events/:id/album?offset=&limit=
func (ctrl *AlbumController) Index(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	page := services.ParsePage(c.Query("offset"), c.Query("limit"), services.AlbumDefaultLimit, services.AlbumMaxLimit)
	result, err := ctrl.Services.Album.List(c.Request.Context(), ctrl.Identity(c), eventID, page)
	if err != nil {
		ctrl.Fail(c, err, services.ErrAlbumListFailed)
		return
	}
	response.Data(c, result)
}

// Store 登记已上传到云存储的照片
// POST /v1/events/:id/album/photos
func (ctrl *AlbumController) Store(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	in, err := requests.ValidatePhoto(c)
	if err != nil {
		requests.Abort(c, err, services.ErrInvalidFileID.Code)
		return
	}
	photo, err := ctrl.Services.Album.Upload(c.Request.Context(), ctrl.Identity(c), eventID, in)
	if err != nil {
		ctrl.Fail(c, err, services.ErrAlbumUploadFailed)
		return
	}
	response.Data(c, gin.H{"photo": photo})
}

// Download 照片下载地址
// GET /v1/events/:id/album/photos/:photoId/download
func (ctrl *AlbumController) Download(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	photoID, ok := ctrl.ParamID(c, "photoId", services.ErrInvalidParams)
	if !ok {
		return
	}
	result, err := ctrl.Services.Album.Download(c.Request.Context(), ctrl.Identity(c), eventID, photoID)
	if err != nil {
		ctrl.Fail(c, err, services.ErrAlbumDownloadFailed)
		return
	}
	response.Data(c, result)
}

// Destroy 删除照片（软删除）
// DELETE /v1/events/:id/album/photos/:photoId
func (ctrl *AlbumController) Destroy(c *gin.Context) {
	eventID, ok := ctrl.EventID(c)
	if !ok {
		return
	}
	photoID, ok := ctrl.ParamID(c, "photoId", services.ErrInvalidParams)
	if !ok {
		return
	}
	result, err := ctrl.Services.Album.Delete(c.Request.Context(), ctrl.Identity(c), eventID, photoID)
	if err != nil {
		ctrl.Fail(c, err, services.ErrAlbumDeleteFailed)
		return
	}
	response.Data(c, result)
}
