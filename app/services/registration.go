package services

import (
	"context"
	"errors"
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/participant"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
)

// RegistrationInput 报名参数，字段已按长度截断
type RegistrationInput struct {
	Division string
	TeamName string
	Note     string
}

// RegistrationStatus 当前身份在赛事中的报名状态
type RegistrationStatus struct {
	IsSigned     bool                     `json:"is_signed"`
	Registration *participant.Participant `json:"registration"`
}

// RegistrationService 报名
//
// 状态只有 未报名 -> pending 一次转换。每个 (赛事, 身份) 至多一条记录：
// 先做存在性检查，再依赖存储层唯一约束兜底并发重复提交
type RegistrationService struct {
	store *repositories.Store
}

// NewRegistrationService 创建报名服务
func NewRegistrationService(store *repositories.Store) *RegistrationService {
	return &RegistrationService{store: store}
}

// Mine 查询当前身份的报名记录
func (s *RegistrationService) Mine(ctx context.Context, identity *Identity, eventID int64) (*RegistrationStatus, error) {
	p, err := FindRegistration(ctx, s.store, eventID, identity)
	if err != nil {
		return nil, err
	}
	return &RegistrationStatus{IsSigned: p != nil, Registration: p}, nil
}

// Create 报名赛事
func (s *RegistrationService) Create(ctx context.Context, identity *Identity, eventID int64, in RegistrationInput) (*participant.Participant, error) {
	division := strings.TrimSpace(in.Division)
	if division == "" {
		return nil, ErrDivisionRequired
	}

	e, err := s.store.Events.Find(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	existing, err := FindRegistration(ctx, s.store, eventID, identity)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySigned
	}

	// 先计数再写入，临近满员时的并发报名可能超出上限
	if e.MaxParticipants > 0 {
		count, err := s.store.Participants.CountByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if e.IsFull(count) {
			return nil, ErrEventFull
		}
	}

	p := newRegistration(e, identity, RegistrationInput{
		Division: division,
		TeamName: strings.TrimSpace(in.TeamName),
		Note:     strings.TrimSpace(in.Note),
	})
	if err := s.store.Participants.Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadySigned
		}
		return nil, err
	}
	return p, nil
}

// newRegistration 组装报名记录，冻结赛事与用户资料快照
func newRegistration(e *event.Event, identity *Identity, in RegistrationInput) *participant.Participant {
	profile := identity.Row.Profile()
	strength, endurance := e.BaseScores()

	p := &participant.Participant{
		DocOpenID:        identity.OpenID,
		EventID:          e.ID,
		UserOpenID:       identity.OpenID,
		Division:         in.Division,
		TeamName:         in.TeamName,
		Note:             in.Note,
		EventTitle:       e.Title,
		EventDate:        e.EventDate,
		EventLocation:    e.Location,
		UserNickname:     profile.Nickname,
		UserWechatID:     profile.WechatID,
		UserSex:          profile.Sex,
		UserAvatarFileID: profile.AvatarFileID,
		PaymentAmount:    e.PriceFor(in.Division),
		PaymentStatus:    participant.PaymentPending,
		BaseStrength:     strength,
		BaseEndurance:    endurance,
		FinalStrength:    strength,
		FinalEndurance:   endurance,
	}
	if identity.UserID != 0 {
		userID := identity.UserID
		p.UserID = &userID
	}
	return p
}

// FindRegistration 查找身份在赛事中的报名记录，先按用户 ID，无结果或该列缺失时按 openid
func FindRegistration(ctx context.Context, store *repositories.Store, eventID int64, identity *Identity) (*participant.Participant, error) {
	if identity == nil || eventID == 0 {
		return nil, nil
	}

	if identity.UserID != 0 {
		p, err := store.Participants.FindByUserID(ctx, eventID, identity.UserID)
		if err != nil && !errors.Is(err, repositories.ErrSchemaMissing) {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	if identity.OpenID == "" {
		return nil, nil
	}
	return store.Participants.FindByOpenID(ctx, eventID, identity.OpenID)
}
