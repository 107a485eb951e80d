package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"travel-backend/cache"
	"travel-backend/models"
)

// ListingService is plain CRUD over listings with an optional read-through
// redis cache for single-listing lookups.
type ListingService struct {
	DB    *gorm.DB
	Cache *cache.ListingCache
}

func NewListingService(db *gorm.DB, c *cache.ListingCache) *ListingService {
	return &ListingService{DB: db, Cache: c}
}

func (s *ListingService) GetAll() ([]models.Listing, error) {
	var listings []models.Listing
	err := s.DB.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *ListingService) GetByID(ctx context.Context, id uint) (models.Listing, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, id); ok {
			return *cached, nil
		}
	}

	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return listing, ErrListingNotFound
		}
		return listing, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, &listing)
	}
	return listing, nil
}

func (s *ListingService) Create(listing *models.Listing) error {
	return s.DB.Create(listing).Error
}

func (s *ListingService) Update(ctx context.Context, listing *models.Listing) error {
	err := s.DB.Model(&models.Listing{}).
		Where("id = ?", listing.ID).
		Updates(listing).Error
	if err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, listing.ID)
	}
	return nil
}

func (s *ListingService) Delete(ctx context.Context, id uint) error {
	if err := s.DB.Delete(&models.Listing{}, id).Error; err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
	return nil
}
