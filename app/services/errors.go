package services

import (
	"errors"
	"net/http"

	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/apperr"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
)

// 身份解析错误
var (
	ErrMissingProviderIdentity = errors.New("missing_provider_identity")
	ErrCreateAppUserFailed     = errors.New("create_app_user_failed")
	ErrMiniIdentityRequired    = errors.New("mini_identity_required")
	ErrMissingIdentity         = errors.New("missing_identity")
	ErrInvalidAuthProfile      = errors.New("invalid_auth_profile")
	ErrLegacyUserCreateFailed  = errors.New("legacy_user_create_failed")
)

// ------------------ 400 ------------------

var (
	ErrInvalidEventID    = apperr.New(http.StatusBadRequest, "INVALID_EVENT_ID", "赛事ID不合法")
	ErrInvalidParams     = apperr.New(http.StatusBadRequest, "INVALID_PARAMS", "参数不合法")
	ErrDivisionRequired  = apperr.New(http.StatusBadRequest, "DIVISION_REQUIRED", "请选择报名组别")
	ErrInvalidFileID     = apperr.New(http.StatusBadRequest, "INVALID_FILE_ID", "缺少有效的文件ID")
	ErrInvalidUserID     = apperr.New(http.StatusBadRequest, "INVALID_USER_ID", "用户ID不合法")
	ErrInvalidRole       = apperr.New(http.StatusBadRequest, "INVALID_ROLE", "角色无效，可选值: runner, coach, organizer, admin")
	ErrInvalidOpenID     = apperr.New(http.StatusBadRequest, "INVALID_OPENID", "openid 不能为空")
	ErrTitleRequired     = apperr.New(http.StatusBadRequest, "INVALID_PARAMS", "赛事标题不能为空")
	ErrMissingSigninCode = apperr.New(http.StatusBadRequest, "INVALID_PARAMS", "缺少 provider_token 或 provider_code")
)

// ------------------ 401 ------------------

var (
	ErrUnauthorized          = apperr.New(http.StatusUnauthorized, "UNAUTHORIZED", "未识别登录身份")
	ErrIdentityResolveFailed = apperr.New(http.StatusUnauthorized, "IDENTITY_RESOLVE_FAILED", "身份解析失败")
	ErrMiniIdentityFailed    = apperr.New(http.StatusUnauthorized, "MINI_IDENTITY_FAILED", "小程序身份解析失败")
	ErrProviderTokenFailed   = apperr.New(http.StatusUnauthorized, "PROVIDER_TOKEN_FAILED", "换取 provider_token 失败")
	ErrIOSSigninFailed       = apperr.New(http.StatusUnauthorized, "IOS_SIGNIN_FAILED", "iOS 登录失败")
)

// ------------------ 403 ------------------

var (
	ErrEventsForbidden     = apperr.New(http.StatusForbidden, "FORBIDDEN", "仅组织者或管理员可管理赛事")
	ErrUsersForbidden      = apperr.New(http.StatusForbidden, "FORBIDDEN", "仅管理员可查看用户列表")
	ErrRoleForbidden       = apperr.New(http.StatusForbidden, "FORBIDDEN", "仅管理员可修改用户角色")
	ErrAlbumForbidden      = apperr.New(http.StatusForbidden, "ALBUM_FORBIDDEN", "仅参赛者可查看相册")
	ErrAlbumUploadDenied   = apperr.New(http.StatusForbidden, "ALBUM_UPLOAD_FORBIDDEN", "仅参赛者可上传照片")
	ErrAlbumDownloadDenied = apperr.New(http.StatusForbidden, "ALBUM_DOWNLOAD_FORBIDDEN", "仅参赛者可下载照片")
	ErrAlbumDeleteDenied   = apperr.New(http.StatusForbidden, "ALBUM_DELETE_FORBIDDEN", "仅上传者或管理员可删除")
)

// ------------------ 404 / 409 ------------------

var (
	ErrEventNotFound   = apperr.New(http.StatusNotFound, "EVENT_NOT_FOUND", "赛事不存在")
	ErrPhotoNotFound   = apperr.New(http.StatusNotFound, "PHOTO_NOT_FOUND", "照片不存在")
	ErrProfileNotFound = apperr.New(http.StatusNotFound, "PROFILE_NOT_FOUND", "用户资料不存在")
	ErrUserNotFound    = apperr.New(http.StatusNotFound, "USER_NOT_FOUND", "用户不存在")

	ErrAlreadySigned = apperr.New(http.StatusConflict, "ALREADY_SIGNED", "你已报名过")
	ErrEventFull     = apperr.New(http.StatusConflict, "EVENT_FULL", "报名已满")
)

// ------------------ 500 / 503 ------------------

var (
	ErrIdentityIncomplete = apperr.New(http.StatusInternalServerError, "IDENTITY_INCOMPLETE", "缺少可用身份标识")
	ErrIOSSigninError     = apperr.New(http.StatusInternalServerError, "IOS_SIGNIN_ERROR", "iOS 登录处理失败")

	ErrEventsQueryFailed    = apperr.New(http.StatusInternalServerError, "EVENTS_QUERY_FAILED", "赛事查询失败")
	ErrEventDetailFailed    = apperr.New(http.StatusInternalServerError, "EVENT_DETAIL_FAILED", "赛事详情查询失败")
	ErrEventSaveFailed      = apperr.New(http.StatusInternalServerError, "EVENT_SAVE_FAILED", "赛事保存失败")
	ErrRegistrationCheck    = apperr.New(http.StatusInternalServerError, "REGISTRATION_CHECK_FAILED", "报名状态查询失败")
	ErrRegistrationCreate   = apperr.New(http.StatusInternalServerError, "REGISTRATION_CREATE_FAILED", "报名失败")
	ErrAlbumSummaryFailed   = apperr.New(http.StatusInternalServerError, "ALBUM_SUMMARY_FAILED", "相册信息查询失败")
	ErrAlbumListFailed      = apperr.New(http.StatusInternalServerError, "ALBUM_LIST_FAILED", "相册列表查询失败")
	ErrAlbumUploadFailed    = apperr.New(http.StatusInternalServerError, "ALBUM_UPLOAD_FAILED", "照片上传登记失败")
	ErrAlbumDownloadFailed  = apperr.New(http.StatusInternalServerError, "ALBUM_DOWNLOAD_FAILED", "照片下载失败")
	ErrAlbumDeleteFailed    = apperr.New(http.StatusInternalServerError, "ALBUM_DELETE_FAILED", "删除照片失败")
	ErrMeQueryFailed        = apperr.New(http.StatusInternalServerError, "ME_QUERY_FAILED", "获取个人信息失败")
	ErrMeRoleFailed         = apperr.New(http.StatusInternalServerError, "ME_ROLE_FAILED", "获取角色失败")
	ErrProfileUpdateFailed  = apperr.New(http.StatusInternalServerError, "PROFILE_UPDATE_FAILED", "资料更新失败")
	ErrUsersListFailed      = apperr.New(http.StatusInternalServerError, "USERS_LIST_FAILED", "用户列表查询失败")
	ErrUserRoleUpdateFailed = apperr.New(http.StatusInternalServerError, "USER_ROLE_UPDATE_FAILED", "角色更新失败")
	ErrUserQueryFailed      = apperr.New(http.StatusInternalServerError, "USER_QUERY_FAILED", "用户查询失败")
	ErrMissingAPIKey        = apperr.New(http.StatusServiceUnavailable, "MISSING_TCB_API_KEY", "后端缺少 TCB_API_KEY，请先在云托管环境变量中配置服务端 API Key")
	ErrAPIKeyInvalid        = apperr.New(http.StatusServiceUnavailable, "TCB_API_KEY_INVALID", "后端鉴权失败，请检查 TCB_API_KEY 是否为\"服务端 API Key\"且未过期")
)

// Classify 将服务层错误转换为业务错误
//
// 已是业务错误的原样返回；缺少 API Key 或存储服务拒绝凭证时返回 503；其余使用 fallback
func Classify(err error, fallback *apperr.Error) *apperr.Error {
	if err == nil {
		return nil
	}
	if e, ok := apperr.As(err); ok {
		return e
	}
	if errors.Is(err, cloudbase.ErrMissingAPIKey) {
		return ErrMissingAPIKey.WithDetail(err.Error())
	}
	if errors.Is(err, repositories.ErrUnauthorized) {
		var apiErr *cloudbase.APIError
		if errors.As(err, &apiErr) {
			return ErrAPIKeyInvalid.WithDetail(apiErr.Detail())
		}
		return ErrAPIKeyInvalid.WithDetail(err.Error())
	}
	return apperr.From(err, fallback)
}
