package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ArtistSync/internal/metrics"
	"ArtistSync/internal/model"
	"ArtistSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 审核决策枚举
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var (
	ErrDraftNotPending = errors.New("草稿不处于待审核状态")
	ErrEmptyDraft      = errors.New("草稿无解析字段，无法通过审核")
	ErrUnknownDecision = errors.New("未知的审核决策")
)

// 新建艺人的占位简介（后续由归并同步补全真实简介）
const placeholderBio = "Bio coming soon. This artist was added from an imported event listing."

// ReviewService 草稿审核服务：pending_review -> approved/rejected 的单次终态迁移
type ReviewService struct {
	logger      *logrus.Logger
	draftRepo   repository.DraftRepository
	eventRepo   repository.EventRepository
	defaultTime string
}

func NewReviewService(db *gorm.DB, logger *logrus.Logger, defaultTime string) *ReviewService {
	if defaultTime == "" {
		defaultTime = "20:00"
	}
	return &ReviewService{
		logger:      logger,
		draftRepo:   repository.NewDraftRepository(db),
		eventRepo:   repository.NewEventRepository(db),
		defaultTime: defaultTime,
	}
}

// Review 审核一条草稿。approve返回落库的活动；reject无其他副作用返回nil。
// 通过路径的场地/艺人/活动/草稿写入在仓储层单事务内完成——
// 数据库失败原样上抛，草稿保持pending_review
func (s *ReviewService) Review(ctx context.Context, draftUUID string, decision string, overrides *model.ParsedEvent) (*model.Event, error) {
	draft, err := s.draftRepo.GetByUUID(ctx, draftUUID)
	if err != nil {
		return nil, fmt.Errorf("查询草稿失败: %w, draft_uuid: %s", err, draftUUID)
	}
	if draft.Status != model.DraftStatusPending {
		return nil, ErrDraftNotPending
	}

	switch decision {
	case DecisionReject:
		if err := s.draftRepo.MarkRejected(ctx, draft.ID); err != nil {
			return nil, err
		}
		s.logger.WithField("draft_uuid", draftUUID).Info("草稿已拒绝")
		return nil, nil
	case DecisionApprove:
		return s.approve(ctx, draft, overrides)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDecision, decision)
	}
}

func (s *ReviewService) approve(ctx context.Context, draft *model.EventDraft, overrides *model.ParsedEvent) (*model.Event, error) {
	parsed, err := s.parsedWithOverrides(draft, overrides)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := NormalizeEventDate(parsed.Date, now)
	startTime := NormalizeEventTime(parsed.Time, s.defaultTime)

	venueName := parsed.VenueName
	if venueName == "" {
		venueName = "TBA"
	}

	// 艺人名回退链：解析出的列表 -> 主办方 -> 标题合成
	artistNames := parsed.Artists
	if len(artistNames) == 0 && parsed.Promoter != "" {
		artistNames = []string{parsed.Promoter}
	}
	if len(artistNames) == 0 && parsed.Title != "" {
		artistNames = []string{parsed.Title}
	}

	slug, err := s.resolveSlug(ctx, BuildSlug(parsed.Title, date, venueName))
	if err != nil {
		return nil, err
	}

	description := parsed.Description
	if description == "" {
		description = fmt.Sprintf("%s at %s on %s.", parsed.Title, venueName, date)
	}

	event := &model.Event{
		Slug:        slug,
		Title:       parsed.Title,
		Description: description,
		Date:        date,
		Time:        startTime,
		Genre:       parsed.Genre,
		Category:    "music",
		Promoter:    parsed.Promoter,
		TicketURL:   parsed.TicketURL,
		FlyerURL:    parsed.ImageURL,
		Price:       parsed.Price,
		Status:      "active",
	}
	venue := &model.Venue{Name: venueName}

	if err := s.eventRepo.SaveApprovedEvent(ctx, event, venue, artistNames, placeholderBio, draft.ID); err != nil {
		return nil, err
	}

	metrics.EventsApproved.Inc()
	s.logger.WithFields(logrus.Fields{
		"draft_uuid": draft.DraftUUID,
		"event_id":   event.ID,
		"slug":       event.Slug,
	}).Info("草稿审核通过，活动已落库")
	return event, nil
}

// parsedWithOverrides 读出草稿解析字段并套用审核员覆盖值；无可用字段则拒绝通过
func (s *ReviewService) parsedWithOverrides(draft *model.EventDraft, overrides *model.ParsedEvent) (*model.ParsedEvent, error) {
	if len(draft.Parsed) == 0 && overrides == nil {
		return nil, ErrEmptyDraft
	}

	parsed := &model.ParsedEvent{}
	if len(draft.Parsed) > 0 {
		if err := json.Unmarshal(draft.Parsed, parsed); err != nil {
			return nil, fmt.Errorf("反序列化草稿字段失败: %w, draft_uuid: %s", err, draft.DraftUUID)
		}
	}
	if overrides != nil {
		applyOverrides(parsed, overrides)
	}
	if parsed.Title == "" {
		return nil, ErrEmptyDraft
	}
	return parsed, nil
}

// applyOverrides 非空覆盖值逐字段生效
func applyOverrides(parsed, overrides *model.ParsedEvent) {
	if overrides.Title != "" {
		parsed.Title = overrides.Title
	}
	if overrides.Date != "" {
		parsed.Date = overrides.Date
	}
	if overrides.Time != "" {
		parsed.Time = overrides.Time
	}
	if overrides.VenueName != "" {
		parsed.VenueName = overrides.VenueName
	}
	if len(overrides.Artists) > 0 {
		parsed.Artists = overrides.Artists
	}
	if overrides.Genre != "" {
		parsed.Genre = overrides.Genre
	}
	if overrides.Price != "" {
		parsed.Price = overrides.Price
	}
	if overrides.Promoter != "" {
		parsed.Promoter = overrides.Promoter
	}
	if overrides.TicketURL != "" {
		parsed.TicketURL = overrides.TicketURL
	}
	if overrides.Description != "" {
		parsed.Description = overrides.Description
	}
	if overrides.ImageURL != "" {
		parsed.ImageURL = overrides.ImageURL
	}
}

// resolveSlug 逐个尝试 base、base-1、base-2…直到未被占用（确定性解冲突）
func (s *ReviewService) resolveSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "event"
	}
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.eventRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
