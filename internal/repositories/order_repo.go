package repositories

import "duka/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByCustomer(customerID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// Create persists the order and all of its items atomically.
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	// MarkSMSSent and MarkAdminEmailSent record that a notification went
	// out; the flags double as the dispatch idempotency key.
	MarkSMSSent(id string) error
	MarkAdminEmailSent(id string) error
	Delete(id string) error
}
