package services_test

import (
	"testing"

	"duka/internal/models"
	"duka/internal/repositories"
	"duka/internal/services"

	"github.com/stretchr/testify/assert"
)

// seedCategoryTree builds electronics -> computers -> laptops.
func seedCategoryTree(t *testing.T, categoryRepo *repositories.MockCategoryRepository) (electronics, computers, laptops models.Category) {
	t.Helper()

	electronics = models.Category{Name: "Electronics", Slug: "electronics", IsActive: true}
	assert.NoError(t, categoryRepo.Create(&electronics))

	computers = models.Category{Name: "Computers", Slug: "computers", ParentID: &electronics.ID, IsActive: true}
	assert.NoError(t, categoryRepo.Create(&computers))

	laptops = models.Category{Name: "Laptops", Slug: "laptops", ParentID: &computers.ID, IsActive: true}
	assert.NoError(t, categoryRepo.Create(&laptops))
	return
}

func TestCatalogService_AveragePrice_SubtreeUnion(t *testing.T) {
	categoryRepo := repositories.NewMockCategoryRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(categoryRepo, productRepo)

	electronics, computers, laptops := seedCategoryTree(t, categoryRepo)

	// One product directly under the root, one in a grandchild, one in two
	// categories of the subtree at once (must be counted a single time),
	// and one inactive (must be excluded).
	assert.NoError(t, productRepo.Create(&models.Product{
		Name: "TV", Slug: "tv", SKU: "TV-1", Price: 300, IsActive: true,
		Categories: []models.Category{electronics},
	}))
	assert.NoError(t, productRepo.Create(&models.Product{
		Name: "Ultrabook", Slug: "ultrabook", SKU: "UB-1", Price: 900, IsActive: true,
		Categories: []models.Category{laptops},
	}))
	assert.NoError(t, productRepo.Create(&models.Product{
		Name: "Workstation", Slug: "workstation", SKU: "WS-1", Price: 600, IsActive: true,
		Categories: []models.Category{computers, laptops},
	}))
	assert.NoError(t, productRepo.Create(&models.Product{
		Name: "Discontinued", Slug: "discontinued", SKU: "DC-1", Price: 9999, IsActive: false,
		Categories: []models.Category{electronics},
	}))

	report, err := service.AveragePrice(electronics.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, 3, report.ProductCount)
	assert.InDelta(t, 600.0, report.AveragePrice, 0.001) // (300+900+600)/3
	assert.True(t, report.IncludeSubcategories)

	// Without subcategories only the direct, active product counts.
	report, err = service.AveragePrice(electronics.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, report.ProductCount)
	assert.InDelta(t, 300.0, report.AveragePrice, 0.001)
}

func TestCatalogService_AveragePrice_EmptyCategory(t *testing.T) {
	categoryRepo := repositories.NewMockCategoryRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(categoryRepo, productRepo)

	empty := models.Category{Name: "Empty", Slug: "empty", IsActive: true}
	assert.NoError(t, categoryRepo.Create(&empty))

	report, err := service.AveragePrice(empty.ID, true)
	assert.NoError(t, err, "an empty category is not an error")
	assert.Equal(t, 0, report.ProductCount)
	assert.Equal(t, 0.0, report.AveragePrice)
}

func TestCatalogService_AveragePrice_UnknownCategory(t *testing.T) {
	service := services.NewCatalogService(repositories.NewMockCategoryRepository(), repositories.NewMockProductRepository())

	_, err := service.AveragePrice("missing", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCatalogService_ProductsUnderCategory(t *testing.T) {
	categoryRepo := repositories.NewMockCategoryRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(categoryRepo, productRepo)

	electronics, _, laptops := seedCategoryTree(t, categoryRepo)
	assert.NoError(t, productRepo.Create(&models.Product{
		Name: "Ultrabook", Slug: "ultrabook", SKU: "UB-1", Price: 900, IsActive: true,
		Categories: []models.Category{laptops},
	}))

	products, err := service.ProductsUnderCategory(electronics.ID, true)
	assert.NoError(t, err)
	assert.Len(t, products, 1)

	products, err = service.ProductsUnderCategory(electronics.ID, false)
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogService_BulkUpload(t *testing.T) {
	categoryRepo := repositories.NewMockCategoryRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(categoryRepo, productRepo)

	// Existing product occupies the duplicate SKU.
	assert.NoError(t, productRepo.Create(&models.Product{
		Name: "Old Phone", Slug: "old-phone", SKU: "PHN-1", Price: 100, IsActive: true,
	}))

	result := service.BulkUpload([]services.ProductUpload{
		{
			Name: "New Phone", Description: "Shiny", Price: 250, SKU: "PHN-2",
			StockQuantity: 5, CategoryNames: []string{"Phones"},
		},
		{
			Name: "Another Phone", Description: "Also shiny", Price: 300, SKU: "PHN-1",
			StockQuantity: 3, CategoryNames: []string{"Phones"},
		},
	})

	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Len(t, result.Errors, 1)
	// The failing descriptor keeps the index it was submitted under.
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Contains(t, result.Errors[0].Error, "PHN-1")

	// The missing category was created by name.
	created, err := categoryRepo.GetByName("Phones")
	assert.NoError(t, err)
	assert.Equal(t, "phones", created.Slug)

	// The created product is linked to it.
	assert.Len(t, result.CreatedProducts, 1)
	assert.Equal(t, "New Phone", result.CreatedProducts[0].Name)
	assert.Len(t, result.CreatedProducts[0].Categories, 1)
}

func TestCatalogService_BulkUpload_ValidationErrors(t *testing.T) {
	service := services.NewCatalogService(repositories.NewMockCategoryRepository(), repositories.NewMockProductRepository())

	result := service.BulkUpload([]services.ProductUpload{
		{Name: "No Price", SKU: "NP-1", CategoryNames: []string{"Misc"}},
		{Name: "OK Product", Price: 10, SKU: "OK-1", CategoryNames: []string{"Misc"}},
		{Name: "No Categories", Price: 10, SKU: "NC-1"},
	})

	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, 0, result.Errors[0].Index)
	assert.Equal(t, 2, result.Errors[1].Index)
}

func TestCatalogService_ListCategories(t *testing.T) {
	categoryRepo := repositories.NewMockCategoryRepository()
	service := services.NewCatalogService(categoryRepo, repositories.NewMockProductRepository())

	electronics, computers, _ := seedCategoryTree(t, categoryRepo)

	roots, err := service.ListCategories("root")
	assert.NoError(t, err)
	assert.Len(t, roots, 1)
	assert.Equal(t, electronics.ID, roots[0].ID)

	children, err := service.ListCategories(electronics.ID)
	assert.NoError(t, err)
	assert.Len(t, children, 1)
	assert.Equal(t, computers.ID, children[0].ID)

	all, err := service.ListCategories("")
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCatalogService_CreateProduct_DuplicateSKU(t *testing.T) {
	categoryRepo := repositories.NewMockCategoryRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(categoryRepo, productRepo)

	assert.NoError(t, service.CreateProduct(&models.Product{
		Name: "Keyboard", SKU: "KEY-1", Price: 75,
	}, nil))

	err := service.CreateProduct(&models.Product{
		Name: "Keyboard Clone", SKU: "KEY-1", Price: 60,
	}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
