package services_test

import (
	"testing"

	"duka/internal/models"
	"duka/internal/repositories"
	"duka/internal/services"

	"github.com/stretchr/testify/assert"
)

func seedOrderProducts(t *testing.T, productRepo *repositories.MockProductRepository) (string, string) {
	t.Helper()
	laptop := &models.Product{Name: "Laptop", Slug: "laptop", SKU: "LAP-1", Price: 100, StockQuantity: 10, IsActive: true}
	mouse := &models.Product{Name: "Mouse", Slug: "mouse", SKU: "MOU-1", Price: 50, StockQuantity: 25, IsActive: true}
	assert.NoError(t, productRepo.Create(laptop))
	assert.NoError(t, productRepo.Create(mouse))
	return laptop.ID, mouse.ID
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	tasks := &fakeEnqueuer{}
	service := services.NewOrderService(orderRepo, productRepo, tasks)

	laptopID, mouseID := seedOrderProducts(t, productRepo)

	order, err := service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "123 Moi Avenue, Nairobi",
		ShippingCost:    10,
		Items: []services.OrderItemRequest{
			{ProductID: laptopID, Quantity: 2},
			{ProductID: mouseID, Quantity: 1},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 250.0, order.Subtotal)
	assert.Equal(t, 40.0, order.TaxAmount)
	assert.Equal(t, 300.0, order.TotalAmount)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Len(t, order.Items, 2)

	// Prices are snapshotted onto the items.
	assert.Equal(t, 100.0, order.Items[0].UnitPrice)
	assert.Equal(t, 200.0, order.Items[0].TotalPrice)

	// Both notification tasks enqueued after the order is persisted.
	assert.Equal(t, [][2]string{
		{"order.sms", order.ID},
		{"order.admin_email", order.ID},
	}, tasks.tasks)
}

func TestOrderService_CreateOrder_SnapshotSurvivesPriceChange(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewOrderService(orderRepo, productRepo, nil)

	laptopID, _ := seedOrderProducts(t, productRepo)

	order, err := service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "123 Moi Avenue, Nairobi",
		Items:           []services.OrderItemRequest{{ProductID: laptopID, Quantity: 1}},
	})
	assert.NoError(t, err)

	// Raise the product price; the stored order must keep the old one.
	product, _ := productRepo.GetByID(laptopID)
	product.Price = 999
	assert.NoError(t, productRepo.Update(product))

	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, stored.Items[0].UnitPrice)
}

func TestOrderService_CreateOrder_ZeroTotalSkipsNotifications(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	tasks := &fakeEnqueuer{}
	service := services.NewOrderService(orderRepo, productRepo, tasks)

	// 0.2 rounds down to a zero subtotal, so the whole order totals zero.
	sticker := &models.Product{Name: "Tiny Sticker", Slug: "tiny-sticker", SKU: "STK-1", Price: 0.2, StockQuantity: 100, IsActive: true}
	assert.NoError(t, productRepo.Create(sticker))

	order, err := service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "123 Moi Avenue, Nairobi",
		Items:           []services.OrderItemRequest{{ProductID: sticker.ID, Quantity: 1}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, order.TotalAmount)
	assert.Empty(t, tasks.tasks, "zero-total orders must not enqueue notifications")
}

func TestOrderService_CreateOrder_Failures(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewOrderService(orderRepo, productRepo, nil)

	laptopID, _ := seedOrderProducts(t, productRepo)

	// Unknown product
	_, err := service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "somewhere",
		Items:           []services.OrderItemRequest{{ProductID: "missing", Quantity: 1}},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Insufficient stock
	_, err = service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "somewhere",
		Items:           []services.OrderItemRequest{{ProductID: laptopID, Quantity: 99}},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// No items
	_, err = service.CreateOrder("cust-1", services.CreateOrderRequest{ShippingAddress: "somewhere"})
	assert.Error(t, err)

	// Nothing persisted on any failure path
	orders, _ := orderRepo.GetAll()
	assert.Empty(t, orders)
}

func TestOrderService_RecomputeTotalsIsIdempotent(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewOrderService(orderRepo, productRepo, nil)

	laptopID, mouseID := seedOrderProducts(t, productRepo)
	order, err := service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "123 Moi Avenue, Nairobi",
		ShippingCost:    10,
		Items: []services.OrderItemRequest{
			{ProductID: laptopID, Quantity: 2},
			{ProductID: mouseID, Quantity: 1},
		},
	})
	assert.NoError(t, err)

	// Recomputing from the persisted item set must never drift the totals.
	for i := 0; i < 5; i++ {
		recomputed, err := service.RecomputeTotals(order.ID)
		assert.NoError(t, err)
		assert.Equal(t, 250.0, recomputed.Subtotal)
		assert.Equal(t, 40.0, recomputed.TaxAmount)
		assert.Equal(t, 300.0, recomputed.TotalAmount)
	}
}

func TestOrderService_UpdateOrderStatus_Transitions(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewOrderService(orderRepo, productRepo, nil)

	laptopID, _ := seedOrderProducts(t, productRepo)
	order, err := service.CreateOrder("cust-1", services.CreateOrderRequest{
		ShippingAddress: "123 Moi Avenue, Nairobi",
		Items:           []services.OrderItemRequest{{ProductID: laptopID, Quantity: 1}},
	})
	assert.NoError(t, err)

	// Skipping ahead in the chain is rejected.
	err = service.UpdateOrderStatus(order.ID, models.StatusShipped)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition")

	// The forward chain works one step at a time.
	assert.NoError(t, service.UpdateOrderStatus(order.ID, models.StatusConfirmed))
	assert.NoError(t, service.UpdateOrderStatus(order.ID, models.StatusProcessing))

	// Cancellation is reachable from any non-terminal state.
	assert.NoError(t, service.UpdateOrderStatus(order.ID, models.StatusCancelled))

	// Terminal states are frozen.
	err = service.UpdateOrderStatus(order.ID, models.StatusConfirmed)
	assert.Error(t, err)

	// Unknown status values are rejected outright.
	err = service.UpdateOrderStatus(order.ID, models.OrderStatus("teleported"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}
