package repositories

import "duka/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(activeOnly bool) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
	// DescendantIDs returns the IDs of every category below the given one
	// in the tree, not including the category itself.
	DescendantIDs(id string) ([]string, error)
}
