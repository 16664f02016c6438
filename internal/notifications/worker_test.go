package notifications_test

import (
	"fmt"
	"testing"
	"time"

	"duka/internal/models"
	"duka/internal/notifications"
	"duka/internal/repositories"
	"duka/pkg/queue"

	"github.com/stretchr/testify/assert"
)

// fakeRetrier records rescheduled tasks instead of waiting on a real delay.
type fakeRetrier struct {
	tasks  []queue.Task
	delays []time.Duration
}

func (f *fakeRetrier) EnqueueAfter(task queue.Task, delay time.Duration) error {
	f.tasks = append(f.tasks, task)
	f.delays = append(f.delays, delay)
	return nil
}

func setupWorker(smsSender *fakeSMSSender, emailSender *fakeEmailSender) (*notifications.Worker, *repositories.MockOrderRepository, *fakeRetrier, *models.Order) {
	orderRepo := repositories.NewMockOrderRepository()
	customerRepo := newFakeCustomerRepo()

	customer := testCustomer("0700000000")
	customerRepo.customers[customer.ID] = *customer

	order := testOrder(500)
	_ = orderRepo.Create(order)

	dispatcher := notifications.NewDispatcher(smsSender, emailSender, "admin@example.com")
	retrier := &fakeRetrier{}
	worker := notifications.NewWorker(orderRepo, customerRepo, dispatcher, retrier)
	return worker, orderRepo, retrier, order
}

// fakeCustomerRepo is a minimal in-memory CustomerRepository.
type fakeCustomerRepo struct {
	customers map[string]models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]models.Customer)}
}

func (f *fakeCustomerRepo) Create(c *models.Customer) error {
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomerRepo) Update(c *models.Customer) error {
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomerRepo) GetAll() ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerRepo) GetByID(id string) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %s not found", id)
	}
	return &c, nil
}

func (f *fakeCustomerRepo) GetByEmail(email string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			customer := c
			return &customer, nil
		}
	}
	return nil, fmt.Errorf("customer with email %s not found", email)
}

func (f *fakeCustomerRepo) GetByUsername(username string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Username == username {
			customer := c
			return &customer, nil
		}
	}
	return nil, fmt.Errorf("customer with username %s not found", username)
}

func TestWorker_RetriesOnTransportError(t *testing.T) {
	smsSender := &fakeSMSSender{err: fmt.Errorf("gateway timeout")}
	worker, _, retrier, order := setupWorker(smsSender, &fakeEmailSender{ok: true})

	worker.Handle(queue.Task{Name: notifications.TaskOrderSMS, EntityID: order.ID, Attempt: 1})

	assert.Len(t, retrier.tasks, 1)
	assert.Equal(t, 2, retrier.tasks[0].Attempt)
	assert.Equal(t, notifications.RetryDelay, retrier.delays[0])
}

func TestWorker_AbandonsAfterExhaustingRetries(t *testing.T) {
	smsSender := &fakeSMSSender{err: fmt.Errorf("gateway timeout")}
	worker, _, retrier, order := setupWorker(smsSender, &fakeEmailSender{ok: true})

	// Run the whole retry chain by feeding each rescheduled task back in.
	worker.Handle(queue.Task{Name: notifications.TaskOrderSMS, EntityID: order.ID, Attempt: 1})
	for i := 0; i < len(retrier.tasks); i++ {
		worker.Handle(retrier.tasks[i])
	}

	// Initial run plus MaxRetries retries, then the task is dropped.
	assert.Equal(t, notifications.MaxRetries+1, smsSender.calls)
	assert.Len(t, retrier.tasks, notifications.MaxRetries)
	assert.Equal(t, notifications.MaxRetries+1, retrier.tasks[len(retrier.tasks)-1].Attempt,
		"the last rescheduled task carries the final attempt number")
}

func TestWorker_NoRetryOnProviderRejection(t *testing.T) {
	// A clean failed return (provider said no, no transport error) is final.
	smsSender := &fakeSMSSender{ok: false}
	worker, _, retrier, order := setupWorker(smsSender, &fakeEmailSender{ok: true})

	worker.Handle(queue.Task{Name: notifications.TaskOrderSMS, EntityID: order.ID, Attempt: 1})

	assert.Equal(t, 1, smsSender.calls)
	assert.Empty(t, retrier.tasks)
}

func TestWorker_MissingOrderIsPermanentFailure(t *testing.T) {
	smsSender := &fakeSMSSender{ok: true}
	worker, _, retrier, _ := setupWorker(smsSender, &fakeEmailSender{ok: true})

	worker.Handle(queue.Task{Name: notifications.TaskOrderSMS, EntityID: "gone", Attempt: 1})

	assert.Zero(t, smsSender.calls)
	assert.Empty(t, retrier.tasks)
}

func TestWorker_SuccessMarksFlagAndRedeliveryIsIdempotent(t *testing.T) {
	smsSender := &fakeSMSSender{ok: true}
	worker, orderRepo, retrier, order := setupWorker(smsSender, &fakeEmailSender{ok: true})

	task := queue.Task{Name: notifications.TaskOrderSMS, EntityID: order.ID, Attempt: 1}
	worker.Handle(task)

	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.True(t, stored.SMSSent)

	// Redelivery of the same task must not send a second SMS.
	worker.Handle(task)
	assert.Equal(t, 1, smsSender.calls)
	assert.Empty(t, retrier.tasks)
}

func TestWorker_AdminEmailTask(t *testing.T) {
	emailSender := &fakeEmailSender{ok: true}
	worker, orderRepo, _, order := setupWorker(&fakeSMSSender{ok: true}, emailSender)

	worker.Handle(queue.Task{Name: notifications.TaskOrderAdminEmail, EntityID: order.ID, Attempt: 1})

	assert.Equal(t, 1, emailSender.calls)
	assert.Equal(t, "admin@example.com", emailSender.recipient)

	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.True(t, stored.AdminEmailSent)
}

func TestWorker_WelcomeEmailHasNoRetry(t *testing.T) {
	emailSender := &fakeEmailSender{err: fmt.Errorf("smtp unavailable")}
	worker, _, retrier, _ := setupWorker(&fakeSMSSender{ok: true}, emailSender)

	worker.Handle(queue.Task{Name: notifications.TaskWelcomeEmail, EntityID: "cust-1", Attempt: 1})

	assert.Equal(t, 1, emailSender.calls)
	assert.Empty(t, retrier.tasks, "welcome emails are fire-and-forget")
}

func TestWorker_UnknownTaskIsDropped(t *testing.T) {
	smsSender := &fakeSMSSender{ok: true}
	worker, _, retrier, _ := setupWorker(smsSender, &fakeEmailSender{ok: true})

	worker.Handle(queue.Task{Name: "order.fax", EntityID: "order-1", Attempt: 1})

	assert.Zero(t, smsSender.calls)
	assert.Empty(t, retrier.tasks)
}
