package services

import (
	"fmt"
	"log"

	"duka/internal/models"
	"duka/internal/pricing"
	"duka/internal/repositories"
)

// Task names for the order notification channels; they must match what the
// notification worker routes on.
const (
	orderSMSTask        = "order.sms"
	orderAdminEmailTask = "order.admin_email"
)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	ShippingAddress string             `json:"shipping_address" validate:"required"`
	BillingAddress  string             `json:"billing_address"`
	ShippingCost    float64            `json:"shipping_cost" validate:"gte=0"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	tasks       TaskEnqueuer
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, tasks TaskEnqueuer) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		tasks:       tasks,
	}
}

// GetAllOrders retrieves all orders. Callers restrict this to staff.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersByCustomer retrieves the orders belonging to one customer.
func (s *OrderService) GetOrdersByCustomer(customerID string) ([]models.Order, error) {
	return s.orderRepo.GetByCustomer(customerID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder places a new order for the customer: it resolves each
// requested product, snapshots its current price onto the item, computes the
// totals, persists order and items atomically, and finally enqueues the
// notification tasks. Enqueueing happens only after the order is committed
// and never inline with a provider call, so a slow SMS gateway cannot hold
// the request (or a transaction) open.
func (s *OrderService) CreateOrder(customerID string, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("an order requires at least one item")
	}

	var items []models.OrderItem
	var lineItems []pricing.LineItem

	for _, itemReq := range req.Items {
		product, err := s.productRepo.GetByID(itemReq.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", itemReq.ProductID, err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("product %s is not available", product.Name)
		}
		if !product.IsDigital && product.StockQuantity < itemReq.Quantity {
			return nil, fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d)",
				product.Name, itemReq.Quantity, product.StockQuantity)
		}

		// Snapshot the price; later product price changes must not affect
		// this order.
		unitPrice := product.Price
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   itemReq.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice * float64(itemReq.Quantity),
		})
		lineItems = append(lineItems, pricing.LineItem{
			UnitPrice: unitPrice,
			Quantity:  itemReq.Quantity,
		})
	}

	totals, err := pricing.Compute(lineItems, req.ShippingCost)
	if err != nil {
		return nil, fmt.Errorf("failed to price order: %w", err)
	}

	newOrder := &models.Order{
		CustomerID:      customerID,
		Status:          models.StatusPending,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		ShippingCost:    req.ShippingCost,
		TotalAmount:     totals.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Items:           items,
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.enqueueNotifications(newOrder)

	return newOrder, nil
}

// enqueueNotifications schedules the SMS and admin email for a committed
// order. Zero-total orders are skipped here as well as in the dispatcher; an
// enqueue failure is logged and never fails the already-committed order.
func (s *OrderService) enqueueNotifications(order *models.Order) {
	if order.TotalAmount <= 0 {
		log.Printf("Order %s has non-positive total, skipping notifications", order.OrderNumber)
		return
	}
	if s.tasks == nil {
		log.Println("Task queue is not configured, skipping order notifications")
		return
	}
	if err := s.tasks.Enqueue(orderSMSTask, order.ID); err != nil {
		log.Printf("Warning: failed to enqueue SMS for order %s: %v", order.ID, err)
	}
	if err := s.tasks.Enqueue(orderAdminEmailTask, order.ID); err != nil {
		log.Printf("Warning: failed to enqueue admin email for order %s: %v", order.ID, err)
	}
}

// RecomputeTotals re-derives the order's totals from its current item set
// and persists them. Pricing is a pure function of the items and shipping
// cost, so repeated recomputation cannot drift.
func (s *OrderService) RecomputeTotals(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	lineItems := make([]pricing.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		lineItems = append(lineItems, pricing.LineItem{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}

	totals, err := pricing.Compute(lineItems, order.ShippingCost)
	if err != nil {
		return nil, fmt.Errorf("failed to price order: %w", err)
	}

	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.TotalAmount = totals.TotalAmount

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to persist recomputed totals: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to a new status, enforcing the
// transition graph: the forward chain runs pending -> confirmed ->
// processing -> shipped -> delivered, and cancelled/refunded are reachable
// from any non-terminal state.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("cannot transition order %s from %s to %s", id, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// DeleteOrder removes an order. Callers restrict this to staff.
func (s *OrderService) DeleteOrder(id string) error {
	return s.orderRepo.Delete(id)
}
