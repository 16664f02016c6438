package handlers

import (
	"log"

	"duka/internal/middleware"
	"duka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles HTTP requests for customer profiles.
type CustomerHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(authService *services.AuthService) *CustomerHandler {
	return &CustomerHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the customer routes with the Fiber app. All of
// them require authentication.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleListCustomers)
	customerRoutes.Get("/me", h.HandleMe)
	customerRoutes.Patch("/me", h.HandleUpdateProfile)
	customerRoutes.Post("/me/change-password", h.HandleChangePassword)
}

// HandleListCustomers lists customers: all of them for staff, just
// themselves for everyone else.
func (h *CustomerHandler) HandleListCustomers(c *fiber.Ctx) error {
	if middleware.IsStaff(c) {
		customers, err := h.authService.GetAllCustomers()
		if err != nil {
			log.Printf("Error listing customers: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve customers",
				"error":   err.Error(),
			})
		}
		return c.JSON(customers)
	}

	customer, err := h.authService.GetCustomerByID(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve customer",
			"error":   err.Error(),
		})
	}
	return c.JSON([]interface{}{customer})
}

// HandleMe returns the authenticated customer's own profile.
func (h *CustomerHandler) HandleMe(c *fiber.Ctx) error {
	customer, err := h.authService.GetCustomerByID(middleware.UserID(c))
	if err != nil {
		log.Printf("Error fetching profile: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Customer not found",
		})
	}
	return c.JSON(customer)
}

// HandleUpdateProfile applies a partial update to the authenticated
// customer's profile.
func (h *CustomerHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(update); err != nil {
		return validationErrorResponse(c, err)
	}

	customer, err := h.authService.UpdateProfile(middleware.UserID(c), update)
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update profile",
			"error":   err.Error(),
		})
	}
	return c.JSON(customer)
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleChangePassword verifies the old password and sets the new one.
func (h *CustomerHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.authService.ChangePassword(middleware.UserID(c), req.OldPassword, req.NewPassword); err != nil {
		log.Printf("Error changing password: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not change password",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}
