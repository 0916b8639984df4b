package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/snapmag/studio-backend/models"
)

// ProductTierRepository handles database operations for ProductTier entities
type ProductTierRepository struct {
	DB *gorm.DB
}

// NewProductTierRepository creates a new instance of ProductTierRepository
func NewProductTierRepository(db *gorm.DB) *ProductTierRepository {
	return &ProductTierRepository{DB: db}
}

func (r *ProductTierRepository) Create(tier *models.ProductTier) error {
	if tier.MagnetCount <= 0 {
		return fmt.Errorf("tier magnet count must be positive, got %d", tier.MagnetCount)
	}
	if err := r.DB.Create(tier).Error; err != nil {
		return fmt.Errorf("failed to create product tier '%s': %w", tier.Name, err)
	}
	return nil
}

// ListAll returns the purchasable kit sizes in display order
func (r *ProductTierRepository) ListAll() ([]models.ProductTier, error) {
	var tiers []models.ProductTier
	err := r.DB.Order("sort_order ASC, magnet_count ASC").Find(&tiers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list product tiers: %w", err)
	}
	return tiers, nil
}

func (r *ProductTierRepository) GetByID(id uint) (*models.ProductTier, error) {
	var tier models.ProductTier
	err := r.DB.First(&tier, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product tier %d: %w", id, err)
	}
	return &tier, nil
}

func (r *ProductTierRepository) Delete(id uint) error {
	if err := r.DB.Delete(&models.ProductTier{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product tier %d: %w", id, err)
	}
	return nil
}

// SeedDefaults inserts the standard magnet tiers when the table is empty, so
// a fresh install has something to sell
func (r *ProductTierRepository) SeedDefaults() error {
	var count int64
	if err := r.DB.Model(&models.ProductTier{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count product tiers: %w", err)
	}
	if count > 0 {
		return nil
	}
	defaults := []models.ProductTier{
		{Name: "3 magnets", MagnetCount: 3, PriceCents: 1495, SortOrder: 1},
		{Name: "6 magnets", MagnetCount: 6, PriceCents: 2495, SortOrder: 2},
		{Name: "9 magnets", MagnetCount: 9, PriceCents: 3295, SortOrder: 3},
	}
	if err := r.DB.Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed product tiers: %w", err)
	}
	return nil
}
