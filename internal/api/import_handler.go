package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ArtistSync/internal/config"
	"ArtistSync/internal/model"
	"ArtistSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ingestor / reviewer ImportHandler 对服务层的最小依赖（单测注入假实现用）
type ingestor interface {
	Ingest(ctx context.Context, raw json.RawMessage, source string) (string, error)
	ListDrafts(ctx context.Context, status string) ([]*model.EventDraft, error)
}

type reviewer interface {
	Review(ctx context.Context, draftUUID string, decision string, overrides *model.ParsedEvent) (*model.Event, error)
}

type ImportHandler struct {
	ingestService ingestor
	reviewService reviewer
	logger        *logrus.Logger
}

func NewImportHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		ingestService: service.NewIngestService(db, logger),
		reviewService: service.NewReviewService(db, logger, cfg.Ingest.DefaultTime),
		logger:        logger,
	}
}

// IngestHandler 导入webhook：结构化扩展载荷或自由文本邮件字段均可，
// 永远入队成功并返回草稿ID（解析失败的草稿留给人工审核补全）
// @Router /api/imports [post]
func (h *ImportHandler) IngestHandler(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取请求体失败"})
		return
	}

	// 渠道标识：query参数优先，其次载荷内source字段，兜底email
	source := c.Query("source")
	if source == "" {
		var peek struct {
			Source string `json:"source"`
		}
		_ = json.Unmarshal(raw, &peek)
		source = peek.Source
	}
	if source == "" {
		source = "email"
	}

	draftID, err := h.ingestService.Ingest(c.Request.Context(), raw, source)
	if err != nil {
		h.logger.WithError(err).WithField("source", source).Error("草稿入队失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft_id": draftID})
}

// ListDraftsHandler 按状态查询草稿列表
// GET /api/imports?status=pending_review
func (h *ImportHandler) ListDraftsHandler(c *gin.Context) {
	status := c.Query("status")
	drafts, err := h.ingestService.ListDrafts(c.Request.Context(), status)
	if err != nil {
		h.logger.WithError(err).Error("查询草稿列表失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "total": len(drafts)})
}

// reviewRequest 审核请求体
type reviewRequest struct {
	Decision  string             `json:"decision"`  // approve / reject
	Overrides *model.ParsedEvent `json:"overrides"` // 审核员逐字段覆盖值（可选）
}

// ReviewHandler 审核一条草稿（approve/reject，终态）
// PUT /api/imports/:draft_id
func (h *ImportHandler) ReviewHandler(c *gin.Context) {
	draftID := c.Param("draft_id")

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体解析失败"})
		return
	}

	event, err := h.reviewService.Review(c.Request.Context(), draftID, req.Decision, req.Overrides)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "草稿不存在"})
		case errors.Is(err, service.ErrDraftNotPending),
			errors.Is(err, service.ErrEmptyDraft),
			errors.Is(err, service.ErrUnknownDecision):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			// 持久化失败：草稿保持pending_review，可重试
			h.logger.WithError(err).WithField("draft_id", draftID).Error("审核落库失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if event == nil {
		c.JSON(http.StatusOK, gin.H{"draft_id": draftID, "status": model.DraftStatusRejected})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft_id": draftID, "status": model.DraftStatusApproved, "event": event})
}
