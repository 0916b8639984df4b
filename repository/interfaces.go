package repository

import (
	"github.com/snapmag/studio-backend/models"
)

// PhotoItemRepositoryInterface defines the methods for photo item persistence
type PhotoItemRepositoryInterface interface {
	Save(item *models.PhotoItem) error
	SaveBatch(items []*models.PhotoItem) error
	GetByID(id string) (*models.PhotoItem, error)
	ListByKitID(kitID string) ([]models.PhotoItem, error)
	// UpdateOriginalRef swaps the persisted original reference after
	// rehydration: a non-nil key clears any inline payload
	UpdateOriginalRef(id string, key *string, inline []byte) error
	Delete(id string) error
}

// ProductTierRepositoryInterface defines the methods for product tier lookups
type ProductTierRepositoryInterface interface {
	Create(tier *models.ProductTier) error
	ListAll() ([]models.ProductTier, error)
	GetByID(id uint) (*models.ProductTier, error)
	Delete(id uint) error
}

// UserRepositoryInterface defines the methods for admin user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)
}
