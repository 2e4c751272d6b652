package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/user"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
)

// FieldLimits 文本字段最大长度（按字符计），超出部分截断
var FieldLimits = map[string]int{
	"division":               64,
	"team_name":              128,
	"note":                   512,
	"nickname":               64,
	"bio":                    1000,
	"wechat_id":              64,
	"mbti":                   16,
	"partner_note":           512,
	"training_focus":         64,
	"hyrox_level":            64,
	"preferred_partner_role": 64,
}

// Truncate 按字段长度限制截断
func Truncate(field, value string) string {
	max, ok := FieldLimits[field]
	if !ok || utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}

// ProfilePatch 资料局部更新，nil 表示未提交该字段
type ProfilePatch struct {
	Nickname             *string
	Bio                  *string
	WechatID             *string
	MBTI                 *string
	PartnerNote          *string
	TrainingFocus        *string
	HyroxLevel           *string
	PreferredPartnerRole *string
	AvatarFileID         *string
	Sex                  *string

	// BirthYear 已提交时为 json 原始值，null 或空字符串表示清空
	BirthYear    interface{}
	HasBirthYear bool
	// Tags 数组、JSON 数组字符串或逗号分隔字符串
	Tags    interface{}
	HasTags bool
}

// NewProfilePatch 从请求体构造局部更新，只有出现的字段才会更新，null 视为清空
func NewProfilePatch(body map[string]interface{}) ProfilePatch {
	patch := ProfilePatch{
		Nickname:             optionalString(body, "nickname"),
		Bio:                  optionalString(body, "bio"),
		WechatID:             optionalString(body, "wechat_id"),
		MBTI:                 optionalString(body, "mbti"),
		PartnerNote:          optionalString(body, "partner_note"),
		TrainingFocus:        optionalString(body, "training_focus"),
		HyroxLevel:           optionalString(body, "hyrox_level"),
		PreferredPartnerRole: optionalString(body, "preferred_partner_role"),
		AvatarFileID:         optionalString(body, "avatar_file_id"),
		Sex:                  optionalString(body, "sex"),
	}
	patch.BirthYear, patch.HasBirthYear = body["birth_year"]
	patch.Tags, patch.HasTags = body["tags"]
	return patch
}

func optionalString(body map[string]interface{}, key string) *string {
	v, ok := body[key]
	if !ok {
		return nil
	}
	s := cast.ToString(v)
	return &s
}

// Me 当前用户信息
type Me struct {
	UserID            int64                     `json:"user_id"`
	OpenID            string                    `json:"openid"`
	UnionID           string                    `json:"unionid"`
	IdentityMode      string                    `json:"identity_mode"`
	Profile           *user.User                `json:"profile"`
	AttendanceRecords []participant.Participant `json:"attendance_records"`
	Scores            participant.Scores        `json:"scores"`
}

// PublicProfile 按 openid 查询的用户资料
type PublicProfile struct {
	Profile           *user.User                `json:"profile"`
	AttendanceRecords []participant.Participant `json:"attendance_records"`
	Scores            participant.Scores        `json:"scores"`
}

// ProfileService 个人资料
type ProfileService struct {
	store *repositories.Store
}

// NewProfileService 创建资料服务
func NewProfileService(store *repositories.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Me 当前身份的资料、参赛记录与能力评分
func (s *ProfileService) Me(ctx context.Context, identity *Identity) (*Me, error) {
	records, err := s.Attendance(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &Me{
		UserID:            identity.UserID,
		OpenID:            identity.OpenID,
		UnionID:           identity.UnionID,
		IdentityMode:      identity.Mode,
		Profile:           identity.Row.Profile(),
		AttendanceRecords: records,
		Scores:            participant.ComputeScores(records),
	}, nil
}

// Role 当前角色
func (s *ProfileService) Role(identity *Identity) string {
	return identity.Role()
}

// Attendance 参赛记录，先按用户 ID 查询，无结果时按 openid
func (s *ProfileService) Attendance(ctx context.Context, identity *Identity) ([]participant.Participant, error) {
	if identity.UserID != 0 {
		rows, err := s.store.Participants.ListByUserID(ctx, identity.UserID)
		if err != nil && !errors.Is(err, repositories.ErrSchemaMissing) {
			return nil, err
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	if identity.OpenID == "" {
		return []participant.Participant{}, nil
	}
	rows, err := s.store.Participants.ListByOpenID(ctx, identity.OpenID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []participant.Participant{}
	}
	return rows, nil
}

// UpdateProfile 更新当前身份的资料，未提交的字段保持原值
func (s *ProfileService) UpdateProfile(ctx context.Context, identity *Identity, patch ProfilePatch) (*user.User, error) {
	row := identity.Row
	if row == nil || row.ID == 0 {
		return nil, ErrProfileNotFound
	}

	values := map[string]interface{}{
		"nickname":               Truncate("nickname", pick(patch.Nickname, row.Nickname)),
		"bio":                    Truncate("bio", pick(patch.Bio, row.Bio)),
		"wechat_id":              Truncate("wechat_id", pick(patch.WechatID, row.WechatID)),
		"mbti":                   Truncate("mbti", pick(patch.MBTI, row.MBTI)),
		"partner_note":           Truncate("partner_note", pick(patch.PartnerNote, row.PartnerNote)),
		"training_focus":         Truncate("training_focus", pick(patch.TrainingFocus, row.TrainingFocus)),
		"hyrox_level":            Truncate("hyrox_level", pick(patch.HyroxLevel, row.HyroxLevel)),
		"preferred_partner_role": Truncate("preferred_partner_role", pick(patch.PreferredPartnerRole, row.PreferredPartnerRole)),
		"avatar_file_id":         pick(patch.AvatarFileID, row.AvatarFileID),
		"sex":                    pick(patch.Sex, row.Sex),
	}

	if patch.HasBirthYear {
		year, err := parseBirthYear(patch.BirthYear)
		if err != nil {
			return nil, ErrInvalidParams.WithDetail("birth_year")
		}
		values["birth_year"] = year
	}

	if patch.HasTags {
		values["tags"] = user.ParseTags(patch.Tags)
	}

	if _, err := s.store.Users.Update(ctx, row.ID, values); err != nil {
		return nil, err
	}

	updated, err := s.store.Users.Find(ctx, row.ID)
	if err != nil {
		logger.LogWarnIf(err)
		return mergeProfile(row, values).Profile(), nil
	}
	return updated.Profile(), nil
}

// ByOpenID 按 openid 查询资料与参赛记录，用户不存在时 profile 为 null
func (s *ProfileService) ByOpenID(ctx context.Context, openid string) (*PublicProfile, error) {
	openid = strings.TrimSpace(openid)
	if openid == "" {
		return nil, ErrInvalidOpenID
	}

	row, err := s.store.Users.FindByOpenID(ctx, openid)
	if err != nil {
		return nil, err
	}
	result := &PublicProfile{AttendanceRecords: []participant.Participant{}}
	if row == nil {
		return result, nil
	}

	records, err := s.store.Participants.ListByOpenID(ctx, openid)
	if err != nil {
		logger.LogWarnIf(err)
		records = nil
	}
	if records != nil {
		result.AttendanceRecords = records
	}
	result.Profile = row.Profile()
	result.Scores = participant.ComputeScores(result.AttendanceRecords)
	return result, nil
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return strings.TrimSpace(*v)
}

// parseBirthYear null 或空字符串返回 nil
func parseBirthYear(raw interface{}) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	year, err := cast.ToIntE(raw)
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// mergeProfile 回读失败时按写入值拼出资料
func mergeProfile(row *user.User, values map[string]interface{}) *user.User {
	u := *row
	u.Nickname = cast.ToString(values["nickname"])
	u.Bio = cast.ToString(values["bio"])
	u.WechatID = cast.ToString(values["wechat_id"])
	u.MBTI = cast.ToString(values["mbti"])
	u.PartnerNote = cast.ToString(values["partner_note"])
	u.TrainingFocus = cast.ToString(values["training_focus"])
	u.HyroxLevel = cast.ToString(values["hyrox_level"])
	u.PreferredPartnerRole = cast.ToString(values["preferred_partner_role"])
	u.AvatarFileID = cast.ToString(values["avatar_file_id"])
	u.Sex = cast.ToString(values["sex"])
	if v, ok := values["birth_year"]; ok {
		u.BirthYear, _ = v.(*int)
	}
	if v, ok := values["tags"].(models.StringList); ok {
		u.Tags = v
	}
	return &u
}
