package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ArtistSync/internal/metrics"
	"ArtistSync/internal/model"
	"ArtistSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 结构化导入渠道（浏览器扩展/书签脚本）：字段基本已拆好，解析只做透传+兜底
var structuredSources = map[string]bool{
	"extension":   true,
	"bookmarklet": true,
}

// ingestPayload 导入请求的宽松结构（结构化字段与自由文本字段共存，各渠道取所需）
type ingestPayload struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Venue       string   `json:"venue"`
	Artists     []string `json:"artists"`
	Artist      string   `json:"artist"`
	Genre       string   `json:"genre"`
	Price       string   `json:"price"`
	Promoter    string   `json:"promoter"`
	Promoters   []string `json:"promoters"`
	TicketURL   string   `json:"ticket_url"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`

	EmailSubject string `json:"email_subject"`
	EmailBody    string `json:"email_body"`
	FromEmail    string `json:"from_email"`
}

// IngestService 活动导入服务：任何载荷都入队成功（解析失败的草稿留空字段走人工审核）
type IngestService struct {
	draftRepo repository.DraftRepository
	logger    *logrus.Logger
}

func NewIngestService(db *gorm.DB, logger *logrus.Logger) *IngestService {
	return &IngestService{
		draftRepo: repository.NewDraftRepository(db),
		logger:    logger,
	}
}

// Ingest 入队一条导入草稿并返回对外草稿ID。
// 原始载荷逐字留存供审计；解析尽力而为，失败只意味着parsed为空，不阻塞入队
func (s *IngestService) Ingest(ctx context.Context, raw json.RawMessage, source string) (string, error) {
	if source == "" {
		source = "unknown"
	}

	var parsed *model.ParsedEvent
	var payload ingestPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.WithError(err).WithField("source", source).Warn("导入载荷解析失败，入队空字段草稿待人工补全")
	} else if structuredSources[source] {
		parsed = parseStructured(&payload)
	} else {
		parsed = ParseFreeText(payload.EmailSubject, payload.EmailBody, payload.FromEmail)
	}

	draft := &model.EventDraft{
		DraftUUID:  uuid.NewString(),
		Status:     model.DraftStatusPending,
		Source:     source,
		RawPayload: normalizeRawPayload(raw),
		ImportedAt: time.Now(),
	}
	if parsed != nil {
		data, err := json.Marshal(parsed)
		if err != nil {
			return "", fmt.Errorf("序列化解析结果失败: %w", err)
		}
		draft.Parsed = data
	}

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return "", err
	}

	metrics.DraftsIngested.WithLabelValues(source).Inc()
	s.logger.WithFields(logrus.Fields{
		"draft_uuid": draft.DraftUUID,
		"source":     source,
	}).Info("导入草稿已入队")
	return draft.DraftUUID, nil
}

// ListDrafts 按状态查询草稿（status为空则查全部）
func (s *IngestService) ListDrafts(ctx context.Context, status string) ([]*model.EventDraft, error) {
	return s.draftRepo.ListByStatus(ctx, status)
}

// parseStructured 结构化渠道透传+兜底：艺人列表缺失时合成一条与标题同名的条目
func parseStructured(payload *ingestPayload) *model.ParsedEvent {
	parsed := &model.ParsedEvent{
		Title:       strings.TrimSpace(payload.Title),
		Date:        strings.TrimSpace(payload.Date),
		Time:        strings.TrimSpace(payload.Time),
		VenueName:   strings.TrimSpace(payload.Venue),
		Genre:       strings.TrimSpace(payload.Genre),
		Price:       strings.TrimSpace(payload.Price),
		TicketURL:   strings.TrimSpace(payload.TicketURL),
		ImageURL:    strings.TrimSpace(payload.ImageURL),
		Description: strings.TrimSpace(payload.Description),
	}

	for _, a := range payload.Artists {
		if name := strings.TrimSpace(a); name != "" {
			parsed.Artists = append(parsed.Artists, name)
		}
	}
	if len(parsed.Artists) == 0 && payload.Artist != "" {
		parsed.Artists = SplitArtists(payload.Artist)
	}
	if len(parsed.Artists) == 0 && parsed.Title != "" {
		parsed.Artists = []string{parsed.Title}
	}

	parsed.Promoter = strings.TrimSpace(payload.Promoter)
	if parsed.Promoter == "" && len(payload.Promoters) > 0 {
		parsed.Promoter = strings.Join(payload.Promoters, ", ")
	}
	return parsed
}

// normalizeRawPayload 保证raw_payload列始终是合法JSON（非法输入包一层字符串留存）
func normalizeRawPayload(raw json.RawMessage) []byte {
	if json.Valid(raw) {
		return raw
	}
	wrapped, err := json.Marshal(map[string]string{"raw": string(raw)})
	if err != nil {
		return []byte(`{}`)
	}
	return wrapped
}
