package repository

import (
	"context"
	"fmt"
	"time"

	"ArtistSync/internal/model"

	"gorm.io/gorm"
)

// DraftRepository 导入草稿仓储（逐行读写，不做全量读-改-写）
type DraftRepository interface {
	// Create 入队一条草稿
	Create(ctx context.Context, draft *model.EventDraft) error
	// GetByUUID 按对外草稿ID查询
	GetByUUID(ctx context.Context, draftUUID string) (*model.EventDraft, error)
	// ListByStatus 按状态查询（status为空则查全部），按导入时间倒序
	ListByStatus(ctx context.Context, status string) ([]*model.EventDraft, error)
	// MarkRejected 拒绝草稿（仅pending_review可拒绝，终态，无其他副作用）
	MarkRejected(ctx context.Context, id uint64) error
}

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, draft *model.EventDraft) error {
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		return fmt.Errorf("保存导入草稿失败: %w, source: %s", err, draft.Source)
	}
	return nil
}

func (r *draftRepository) GetByUUID(ctx context.Context, draftUUID string) (*model.EventDraft, error) {
	var draft model.EventDraft
	if err := r.db.WithContext(ctx).Where("draft_uuid = ?", draftUUID).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) ListByStatus(ctx context.Context, status string) ([]*model.EventDraft, error) {
	db := r.db.WithContext(ctx).Model(&model.EventDraft{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var drafts []*model.EventDraft
	if err := db.Order("imported_at DESC").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *draftRepository) MarkRejected(ctx context.Context, id uint64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.EventDraft{}).
		Where("id = ? AND status = ?", id, model.DraftStatusPending).
		Updates(map[string]interface{}{
			"status":      model.DraftStatusRejected,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("拒绝草稿失败: %w, draft_id: %d", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("草稿不处于待审核状态，无法拒绝, draft_id: %d", id)
	}
	return nil
}
