package repository

import (
	"context"
	"errors"
	"fmt"

	"ArtistSync/internal/model"

	"gorm.io/gorm"
)

// VenueRepository 场地仓储（导入管线仅惰性创建，创建后不再更新）
type VenueRepository interface {
	// LookupOrCreate 按名称精确匹配查找或创建
	LookupOrCreate(ctx context.Context, venue *model.Venue) (*model.Venue, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) LookupOrCreate(ctx context.Context, venue *model.Venue) (*model.Venue, error) {
	return lookupOrCreateVenue(r.db.WithContext(ctx), venue)
}

// lookupOrCreateVenue 按名称精确匹配查找或创建（tx与非tx路径共用）
func lookupOrCreateVenue(db *gorm.DB, venue *model.Venue) (*model.Venue, error) {
	var existing model.Venue
	err := db.Where("name = ?", venue.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询场地失败: %w, name: %s", err, venue.Name)
	}

	if err := db.Create(venue).Error; err != nil {
		return nil, fmt.Errorf("创建场地失败: %w, name: %s", err, venue.Name)
	}
	return venue, nil
}
