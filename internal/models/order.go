package models

import "gorm.io/gorm"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// The forward chain is pending -> confirmed -> processing -> shipped ->
// delivered; cancelled and refunded are reachable from any non-terminal
// state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled || next == StatusRefunded {
		return true
	}
	forward := map[OrderStatus]OrderStatus{
		StatusPending:    StatusConfirmed,
		StatusConfirmed:  StatusProcessing,
		StatusProcessing: StatusShipped,
		StatusShipped:    StatusDelivered,
	}
	return forward[s] == next
}

// OrderItem is a single line of an order. The unit price is snapshotted
// from the product at order creation time and never updated afterwards.
type OrderItem struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string  `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID  string  `json:"product_id" gorm:"type:varchar(36)" validate:"required,uuid"`
	Quantity   int     `json:"quantity" validate:"required,min=1"`
	UnitPrice  float64 `json:"unit_price" validate:"gt=0"`
	TotalPrice float64 `json:"total_price"` // UnitPrice * Quantity
}

// Order represents a customer order with its computed totals.
// TotalAmount always equals Subtotal + TaxAmount + ShippingCost, each term
// rounded half-up to a whole currency unit.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OrderNumber     string      `json:"order_number" gorm:"uniqueIndex;type:varchar(20)"`
	CustomerID      string      `json:"customer_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);default:pending"`
	Subtotal        float64     `json:"subtotal" validate:"gte=0"`
	TaxAmount       float64     `json:"tax_amount" validate:"gte=0"`
	ShippingCost    float64     `json:"shipping_cost" validate:"gte=0"`
	TotalAmount     float64     `json:"total_amount" validate:"gte=0"`
	ShippingAddress string      `json:"shipping_address" validate:"required"`
	BillingAddress  string      `json:"billing_address"`
	SMSSent         bool        `json:"sms_sent"`
	AdminEmailSent  bool        `json:"admin_email_sent"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model                  // CreatedAt, UpdatedAt, DeletedAt
}
