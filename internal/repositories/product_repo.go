package repositories

import "duka/internal/models"

// ProductFilter narrows down a product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID string
	Search     string // matches name, description or SKU
	InStock    *bool
	ActiveOnly bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	Find(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	// GetByCategories returns the deduplicated set of active products
	// belonging to any of the given categories.
	GetByCategories(categoryIDs []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
