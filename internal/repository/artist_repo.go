package repository

import (
	"context"
	"errors"
	"fmt"

	"ArtistSync/internal/model"

	"gorm.io/gorm"
)

// ArtistRepository 艺人仓储
type ArtistRepository interface {
	// GetByID 按主键查询
	GetByID(ctx context.Context, id uint64) (*model.Artist, error)
	// ListByIDs 按ID列表批量查询（批量同步用）
	ListByIDs(ctx context.Context, ids []uint64) ([]*model.Artist, error)
	// ListAll 查询全部艺人（批量同步不传ID时用）
	ListAll(ctx context.Context) ([]*model.Artist, error)
	// LookupOrCreate 按名称查找或创建（大小写不敏感精确匹配，首个匹配生效）
	// 同名两次调用返回同一条记录；新建记录写入占位简介
	LookupOrCreate(ctx context.Context, name string, placeholderBio string) (*model.Artist, error)
	// UpdateFields 按主键做单次字段级更新（归并结果落库）
	UpdateFields(ctx context.Context, id uint64, updates map[string]interface{}) error
}

type artistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	var artist model.Artist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&artist).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepository) ListByIDs(ctx context.Context, ids []uint64) ([]*model.Artist, error) {
	var artists []*model.Artist
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&artists).Error; err != nil {
		return nil, err
	}
	return artists, nil
}

func (r *artistRepository) ListAll(ctx context.Context) ([]*model.Artist, error) {
	var artists []*model.Artist
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&artists).Error; err != nil {
		return nil, err
	}
	return artists, nil
}

func (r *artistRepository) LookupOrCreate(ctx context.Context, name string, placeholderBio string) (*model.Artist, error) {
	return lookupOrCreateArtist(r.db.WithContext(ctx), name, placeholderBio)
}

func (r *artistRepository) UpdateFields(ctx context.Context, id uint64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Artist{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新艺人字段失败: %w, artist_id: %d", err, id)
	}
	return nil
}

// lookupOrCreateArtist 按名称查找或创建（tx与非tx路径共用，保证语义一致）
// 查找按 LOWER(name) 精确匹配、id 升序取第一条——不做近似名归一化
func lookupOrCreateArtist(db *gorm.DB, name string, placeholderBio string) (*model.Artist, error) {
	var artist model.Artist
	err := db.Where("LOWER(name) = LOWER(?)", name).Order("id ASC").First(&artist).Error
	if err == nil {
		return &artist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询艺人失败: %w, name: %s", err, name)
	}

	artist = model.Artist{
		Name: name,
		Bio:  placeholderBio,
	}
	if err := db.Create(&artist).Error; err != nil {
		return nil, fmt.Errorf("创建艺人失败: %w, name: %s", err, name)
	}
	return &artist, nil
}
