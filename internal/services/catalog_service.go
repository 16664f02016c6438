package services

import (
	"fmt"
	"strings"

	"duka/internal/models"
	"duka/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// AveragePriceReport is the aggregate returned for a category's product set.
type AveragePriceReport struct {
	CategoryID           string  `json:"category_id"`
	CategoryName         string  `json:"category_name"`
	AveragePrice         float64 `json:"average_price"`
	ProductCount         int     `json:"product_count"`
	IncludeSubcategories bool    `json:"include_subcategories"`
}

// ProductUpload is one descriptor in a bulk product upload. Missing
// categories are created by name.
type ProductUpload struct {
	Name          string   `json:"name" validate:"required,min=3,max=200"`
	Description   string   `json:"description" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	CostPrice     float64  `json:"cost_price" validate:"gte=0"`
	SKU           string   `json:"sku" validate:"required,max=50"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	IsDigital     bool     `json:"is_digital"`
	CategoryNames []string `json:"category_names" validate:"required,min=1,dive,required"`
}

// BulkUploadError reports a single failed descriptor, preserving its
// position in the submitted list.
type BulkUploadError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkUploadResult is the per-item breakdown of a bulk upload.
type BulkUploadResult struct {
	CreatedCount    int               `json:"created_count"`
	ErrorCount      int               `json:"error_count"`
	CreatedProducts []models.Product  `json:"created_products"`
	Errors          []BulkUploadError `json:"errors"`
}

// CatalogService handles business logic for categories and products.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	validate     *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		validate:     validator.New(),
	}
}

// --- Categories ---

// ListCategories returns active categories, optionally filtered by parent:
// "" means all, "root" means top-level only, anything else is a parent ID.
func (s *CatalogService) ListCategories(parentFilter string) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(true)
	if err != nil {
		return nil, err
	}
	if parentFilter == "" {
		return categories, nil
	}

	var filtered []models.Category
	for _, c := range categories {
		switch {
		case parentFilter == "root" && c.ParentID == nil:
			filtered = append(filtered, c)
		case c.ParentID != nil && *c.ParentID == parentFilter:
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// GetCategoryByID retrieves a single category.
func (s *CatalogService) GetCategoryByID(id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// CreateCategory creates a new category, deriving the slug from the name
// when one is not provided.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if category.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(*category.ParentID); err != nil {
			return fmt.Errorf("parent category not found: %w", err)
		}
	}
	category.IsActive = true
	return s.categoryRepo.Create(category)
}

// UpdateCategory updates an existing category.
func (s *CatalogService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

// DeleteCategory deletes a category by its ID.
func (s *CatalogService) DeleteCategory(id string) error {
	return s.categoryRepo.Delete(id)
}

// categoryTreeIDs returns the category plus (optionally) its whole subtree.
func (s *CatalogService) categoryTreeIDs(category *models.Category, includeSubcategories bool) ([]string, error) {
	ids := []string{category.ID}
	if !includeSubcategories {
		return ids, nil
	}
	descendants, err := s.categoryRepo.DescendantIDs(category.ID)
	if err != nil {
		return nil, err
	}
	return append(ids, descendants...), nil
}

// AveragePrice computes the average price and count over the active products
// of a category, optionally including every descendant category. Products in
// several matching categories are counted once. An empty product set yields
// an average of 0 and a count of 0, not an error.
func (s *CatalogService) AveragePrice(categoryID string, includeSubcategories bool) (*AveragePriceReport, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	ids, err := s.categoryTreeIDs(category, includeSubcategories)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.GetByCategories(ids)
	if err != nil {
		return nil, err
	}

	report := &AveragePriceReport{
		CategoryID:           category.ID,
		CategoryName:         category.Name,
		ProductCount:         len(products),
		IncludeSubcategories: includeSubcategories,
	}
	if len(products) > 0 {
		var sum float64
		for _, p := range products {
			sum += p.Price
		}
		report.AveragePrice = sum / float64(len(products))
	}
	return report, nil
}

// ProductsUnderCategory lists the active products of a category, optionally
// including its whole subtree.
func (s *CatalogService) ProductsUnderCategory(categoryID string, includeSubcategories bool) ([]models.Product, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	ids, err := s.categoryTreeIDs(category, includeSubcategories)
	if err != nil {
		return nil, err
	}
	return s.productRepo.GetByCategories(ids)
}

// --- Products ---

// ListProducts returns active products matching the filter.
func (s *CatalogService) ListProducts(filter repositories.ProductFilter) ([]models.Product, error) {
	filter.ActiveOnly = true
	return s.productRepo.Find(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct creates a new product, linking it to the given categories.
func (s *CatalogService) CreateProduct(product *models.Product, categoryIDs []string) error {
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	if _, err := s.productRepo.GetBySKU(product.SKU); err == nil {
		return fmt.Errorf("a product with SKU %s already exists", product.SKU)
	}

	for _, id := range categoryIDs {
		category, err := s.categoryRepo.GetByID(id)
		if err != nil {
			return fmt.Errorf("category not found: %w", err)
		}
		product.Categories = append(product.Categories, *category)
	}
	product.IsActive = true
	return s.productRepo.Create(product)
}

// UpdateProduct updates an existing product, replacing its category set when
// categoryIDs is non-nil.
func (s *CatalogService) UpdateProduct(product *models.Product, categoryIDs []string) error {
	if categoryIDs != nil {
		product.Categories = nil
		for _, id := range categoryIDs {
			category, err := s.categoryRepo.GetByID(id)
			if err != nil {
				return fmt.Errorf("category not found: %w", err)
			}
			product.Categories = append(product.Categories, *category)
		}
	}
	return s.productRepo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// BulkUpload creates many products in one call. Each descriptor is validated
// and created independently; one bad entry never aborts the rest, and every
// error keeps the index the caller submitted it under. Categories named by a
// descriptor are created on the fly when missing.
func (s *CatalogService) BulkUpload(uploads []ProductUpload) *BulkUploadResult {
	result := &BulkUploadResult{
		CreatedProducts: []models.Product{},
		Errors:          []BulkUploadError{},
	}

	for i, upload := range uploads {
		if err := s.validate.Struct(upload); err != nil {
			result.Errors = append(result.Errors, BulkUploadError{Index: i, Error: err.Error()})
			continue
		}
		if _, err := s.productRepo.GetBySKU(upload.SKU); err == nil {
			result.Errors = append(result.Errors, BulkUploadError{
				Index: i,
				Error: fmt.Sprintf("a product with SKU %s already exists", upload.SKU),
			})
			continue
		}

		categories, err := s.getOrCreateCategories(upload.CategoryNames)
		if err != nil {
			result.Errors = append(result.Errors, BulkUploadError{Index: i, Error: err.Error()})
			continue
		}

		product := &models.Product{
			Name:          upload.Name,
			Slug:          Slugify(upload.Name),
			Description:   upload.Description,
			Price:         upload.Price,
			CostPrice:     upload.CostPrice,
			SKU:           upload.SKU,
			StockQuantity: upload.StockQuantity,
			IsDigital:     upload.IsDigital,
			IsActive:      true,
			Categories:    categories,
		}
		if err := s.productRepo.Create(product); err != nil {
			result.Errors = append(result.Errors, BulkUploadError{Index: i, Error: err.Error()})
			continue
		}
		result.CreatedProducts = append(result.CreatedProducts, *product)
	}

	result.CreatedCount = len(result.CreatedProducts)
	result.ErrorCount = len(result.Errors)
	return result
}

func (s *CatalogService) getOrCreateCategories(names []string) ([]models.Category, error) {
	var categories []models.Category
	for _, name := range names {
		category, err := s.categoryRepo.GetByName(name)
		if err != nil {
			category = &models.Category{
				Name:     name,
				Slug:     Slugify(name),
				IsActive: true,
			}
			if createErr := s.categoryRepo.Create(category); createErr != nil {
				return nil, fmt.Errorf("failed to create category %s: %w", name, createErr)
			}
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
