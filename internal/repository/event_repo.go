package repository

import (
	"context"
	"fmt"
	"time"

	"ArtistSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository 活动仓储
type EventRepository interface {
	// SlugExists slug 是否已被占用（审核服务解冲突用）
	SlugExists(ctx context.Context, slug string) (bool, error)
	// SaveApprovedEvent 审核通过落库：场地/艺人查找或创建、活动写入、草稿置为approved，
	// 全部在一个事务内完成——任一步失败整体回滚，草稿保持pending_review
	SaveApprovedEvent(ctx context.Context, event *model.Event, venue *model.Venue, artistNames []string, placeholderBio string, draftID uint64) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Event{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询slug占用失败: %w, slug: %s", err, slug)
	}
	return count > 0, nil
}

func (r *eventRepository) SaveApprovedEvent(ctx context.Context, event *model.Event, venue *model.Venue, artistNames []string, placeholderBio string, draftID uint64) error {
	// 开启事务
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	// 1. 场地查找或创建（按名称精确匹配）
	savedVenue, err := lookupOrCreateVenue(tx, venue)
	if err != nil {
		tx.Rollback()
		return err
	}
	event.VenueID = savedVenue.ID

	// 2. 艺人查找或创建（大小写不敏感精确匹配）
	var artists []*model.Artist
	for _, name := range artistNames {
		artist, err := lookupOrCreateArtist(tx, name, placeholderBio)
		if err != nil {
			tx.Rollback()
			return err
		}
		artists = append(artists, artist)
	}
	event.Artists = artists

	// 3. 写入活动（多对多艺人关联由gorm一并写入）
	if event.EventUUID == "" {
		event.EventUUID = uuid.NewString()
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存活动失败: %w, title: %s", err, event.Title)
	}

	// 4. 草稿置为approved并回填活动ID（仅pending_review可通过）
	now := time.Now()
	result := tx.Model(&model.EventDraft{}).
		Where("id = ? AND status = ?", draftID, model.DraftStatusPending).
		Updates(map[string]interface{}{
			"status":      model.DraftStatusApproved,
			"event_id":    event.ID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("更新草稿状态失败: %w, draft_id: %d", result.Error, draftID)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("草稿不处于待审核状态，无法通过, draft_id: %d", draftID)
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}
