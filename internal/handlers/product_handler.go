package handlers

import (
	"log"
	"strings"

	"duka/internal/models"
	"duka/internal/repositories"
	"duka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalogService *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		validate:       validator.New(),
	}
}

// RegisterPublicRoutes registers the read-only product routes.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

// RegisterStaffRoutes registers the mutating product routes.
func (h *ProductHandler) RegisterStaffRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/bulk-upload", h.HandleBulkUpload)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts lists active products with optional category, search
// and in_stock filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
	}
	if v := c.Query("in_stock"); v != "" {
		inStock := v == "true"
		filter.InStock = &inStock
	}

	products, err := h.catalogService.ListProducts(filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.catalogService.GetProductByID(c.Params("id"))
	if err != nil {
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// ProductRequest represents the request body for creating or updating a
// product.
type ProductRequest struct {
	Name          string   `json:"name" validate:"required,min=3,max=200"`
	Slug          string   `json:"slug" validate:"omitempty,max=200"`
	Description   string   `json:"description" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	CostPrice     float64  `json:"cost_price" validate:"gte=0"`
	SKU           string   `json:"sku" validate:"required,max=50"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	IsDigital     bool     `json:"is_digital"`
	IsFeatured    bool     `json:"is_featured"`
	CategoryIDs   []string `json:"category_ids" validate:"omitempty,dive,uuid"`
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	product := &models.Product{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		SKU:           req.SKU,
		StockQuantity: req.StockQuantity,
		IsDigital:     req.IsDigital,
		IsFeatured:    req.IsFeatured,
	}

	if err := h.catalogService.CreateProduct(product, req.CategoryIDs); err != nil {
		log.Printf("Error creating product: %v", err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Product creation failed",
				"error":   err.Error(),
			})
		}
		if notFound(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Referenced category not found",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleBulkUpload creates many products at once. The response reports a
// per-item breakdown; items that failed keep the index they were submitted
// under.
func (h *ProductHandler) HandleBulkUpload(c *fiber.Ctx) error {
	var uploads []services.ProductUpload
	if err := c.BodyParser(&uploads); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Expected a list of products",
			"error":   err.Error(),
		})
	}

	result := h.catalogService.BulkUpload(uploads)

	status := fiber.StatusCreated
	if result.CreatedCount == 0 {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(result)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.catalogService.GetProductByID(c.Params("id"))
	if err != nil {
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	product.Name = req.Name
	if req.Slug != "" {
		product.Slug = req.Slug
	}
	product.Description = req.Description
	product.Price = req.Price
	product.CostPrice = req.CostPrice
	product.SKU = req.SKU
	product.StockQuantity = req.StockQuantity
	product.IsDigital = req.IsDigital
	product.IsFeatured = req.IsFeatured

	if err := h.catalogService.UpdateProduct(product, req.CategoryIDs); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteProduct(c.Params("id")); err != nil {
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
