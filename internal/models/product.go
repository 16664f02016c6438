package models

import "gorm.io/gorm"

// Category is a node in the product category tree. A category has at most
// one parent; root categories have a nil ParentID.
type Category struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	ParentID    *string `json:"parent_id" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
	gorm.Model          // CreatedAt, UpdatedAt, DeletedAt
}

// Product represents a product in the store. A product can belong to
// multiple categories.
type Product struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string     `json:"name" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Slug          string     `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,max=200"`
	Description   string     `json:"description" validate:"omitempty,max=2000"`
	Price         float64    `json:"price" validate:"required,gt=0"`
	CostPrice     float64    `json:"cost_price" validate:"gte=0"`
	SKU           string     `json:"sku" gorm:"uniqueIndex;type:varchar(50)" validate:"required,max=50"`
	StockQuantity int        `json:"stock_quantity" validate:"gte=0"`
	IsDigital     bool       `json:"is_digital"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	IsFeatured    bool       `json:"is_featured"`
	Categories    []Category `json:"categories" gorm:"many2many:product_categories"`
	gorm.Model               // CreatedAt, UpdatedAt, DeletedAt
}

// InStock reports whether the product can currently be sold.
// Digital products are never out of stock.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0 || p.IsDigital
}
