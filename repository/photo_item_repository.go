package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snapmag/studio-backend/models"
)

// PhotoItemRepository handles database operations for PhotoItem entities
type PhotoItemRepository struct {
	DB *gorm.DB
}

// NewPhotoItemRepository creates a new instance of PhotoItemRepository
func NewPhotoItemRepository(db *gorm.DB) *PhotoItemRepository {
	return &PhotoItemRepository{DB: db}
}

// Save upserts a single photo item row
func (r *PhotoItemRepository) Save(item *models.PhotoItem) error {
	err := r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to save photo item %s: %w", item.ID, err)
	}
	return nil
}

// SaveBatch upserts a finalized kit's rows in one transaction so a kit is
// never persisted half-written
func (r *PhotoItemRepository) SaveBatch(items []*models.PhotoItem) error {
	if len(items) == 0 {
		return nil
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save photo item batch: %w", err)
	}
	return nil
}

// GetByID retrieves one photo item row
func (r *PhotoItemRepository) GetByID(id string) (*models.PhotoItem, error) {
	var item models.PhotoItem
	err := r.DB.Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo item %s: %w", id, err)
	}
	return &item, nil
}

// ListByKitID returns a kit's items in display order
func (r *PhotoItemRepository) ListByKitID(kitID string) ([]models.PhotoItem, error) {
	var items []models.PhotoItem
	err := r.DB.Where("kit_id = ?", kitID).Order("position ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photo items for kit %s: %w", kitID, err)
	}
	return items, nil
}

// UpdateOriginalRef records a rehydrated original reference. setting a key
// clears the inline low-fidelity payload so the row shrinks back down.
func (r *PhotoItemRepository) UpdateOriginalRef(id string, key *string, inline []byte) error {
	updates := map[string]interface{}{
		"original_key":  key,
		"original_data": inline,
	}
	if key != nil {
		updates["original_data"] = nil
	}
	result := r.DB.Model(&models.PhotoItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update original ref for %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a photo item row
func (r *PhotoItemRepository) Delete(id string) error {
	result := r.DB.Delete(&models.PhotoItem{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete photo item %s: %w", id, result.Error)
	}
	return nil
}
