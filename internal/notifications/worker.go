package notifications

import (
	"log"
	"time"

	"duka/internal/repositories"
	"duka/pkg/queue"
)

// Task names routed by the worker.
const (
	TaskOrderSMS        = "order.sms"
	TaskOrderAdminEmail = "order.admin_email"
	TaskWelcomeEmail    = "customer.welcome_email"
)

// MaxRetries is how many times a task is rescheduled after its initial run,
// so a task executes at most MaxRetries+1 times. Only transport errors count
// as retryable; a provider rejection is final on the first attempt.
const MaxRetries = 3

// RetryDelay is the fixed delay between attempts.
const RetryDelay = 60 * time.Second

// Retrier schedules a task to run again after a delay. *queue.Client
// satisfies it.
type Retrier interface {
	EnqueueAfter(task queue.Task, delay time.Duration) error
}

// Worker executes notification tasks delivered from the queue. Delivery is
// at-least-once, so every handler is idempotent: the order's sent flags are
// checked before sending and set after, which keeps a redelivered task from
// double-notifying.
type Worker struct {
	orders     repositories.OrderRepository
	customers  repositories.CustomerRepository
	dispatcher *Dispatcher
	retrier    Retrier
	retryDelay time.Duration
}

// NewWorker creates a new Worker.
func NewWorker(
	orders repositories.OrderRepository,
	customers repositories.CustomerRepository,
	dispatcher *Dispatcher,
	retrier Retrier,
) *Worker {
	return &Worker{
		orders:     orders,
		customers:  customers,
		dispatcher: dispatcher,
		retrier:    retrier,
		retryDelay: RetryDelay,
	}
}

// Handle runs one task to completion. It never reports an error to the
// consume loop: permanent failures are logged and dropped, transient ones
// are rescheduled through the retrier.
func (w *Worker) Handle(task queue.Task) {
	switch task.Name {
	case TaskOrderSMS:
		w.handleOrderTask(task, w.sendOrderSMS)
	case TaskOrderAdminEmail:
		w.handleOrderTask(task, w.sendOrderAdminEmail)
	case TaskWelcomeEmail:
		w.handleWelcomeEmail(task)
	default:
		log.Printf("Unknown task %q, dropping", task.Name)
	}
}

// handleOrderTask loads the order and its customer, runs the send, and
// decides on retry. An order that no longer exists is a permanent failure.
func (w *Worker) handleOrderTask(task queue.Task, send func(task queue.Task) (Status, error)) {
	status, err := send(task)
	if err != nil {
		// Attempt 1 is the initial run; attempts 2..MaxRetries+1 are retries.
		if task.Attempt > MaxRetries {
			log.Printf("Abandoning task %s for order %s after %d attempts: %v",
				task.Name, task.EntityID, task.Attempt, err)
			return
		}
		task.Attempt++
		if retryErr := w.retrier.EnqueueAfter(task, w.retryDelay); retryErr != nil {
			log.Printf("Failed to schedule retry of %s for order %s: %v",
				task.Name, task.EntityID, retryErr)
		}
		return
	}
	if status == StatusFailed {
		// Provider rejection without a transport error: final, no retry.
		log.Printf("Task %s for order %s failed permanently", task.Name, task.EntityID)
	}
}

func (w *Worker) sendOrderSMS(task queue.Task) (Status, error) {
	order, err := w.orders.GetByID(task.EntityID)
	if err != nil {
		log.Printf("Order %s not found, SMS not sent: %v", task.EntityID, err)
		return StatusFailed, nil
	}
	if order.SMSSent {
		log.Printf("SMS for order %s already sent, skipping duplicate delivery", order.OrderNumber)
		return StatusSkipped, nil
	}
	customer, err := w.customers.GetByID(order.CustomerID)
	if err != nil {
		log.Printf("Customer %s not found for order %s, SMS not sent: %v",
			order.CustomerID, task.EntityID, err)
		return StatusFailed, nil
	}

	status, err := w.dispatcher.SendOrderSMS(order, customer)
	if status == StatusSent {
		if markErr := w.orders.MarkSMSSent(order.ID); markErr != nil {
			log.Printf("Failed to mark SMS sent on order %s: %v", order.ID, markErr)
		}
	}
	return status, err
}

func (w *Worker) sendOrderAdminEmail(task queue.Task) (Status, error) {
	order, err := w.orders.GetByID(task.EntityID)
	if err != nil {
		log.Printf("Order %s not found, admin email not sent: %v", task.EntityID, err)
		return StatusFailed, nil
	}
	if order.AdminEmailSent {
		log.Printf("Admin email for order %s already sent, skipping duplicate delivery", order.OrderNumber)
		return StatusSkipped, nil
	}
	customer, err := w.customers.GetByID(order.CustomerID)
	if err != nil {
		log.Printf("Customer %s not found for order %s, admin email not sent: %v",
			order.CustomerID, task.EntityID, err)
		return StatusFailed, nil
	}

	status, err := w.dispatcher.SendOrderAdminEmail(order, customer)
	if status == StatusSent {
		if markErr := w.orders.MarkAdminEmailSent(order.ID); markErr != nil {
			log.Printf("Failed to mark admin email sent on order %s: %v", order.ID, markErr)
		}
	}
	return status, err
}

// handleWelcomeEmail has no retry policy: one attempt, success or not.
func (w *Worker) handleWelcomeEmail(task queue.Task) {
	customer, err := w.customers.GetByID(task.EntityID)
	if err != nil {
		log.Printf("Customer %s not found, welcome email not sent: %v", task.EntityID, err)
		return
	}
	if _, err := w.dispatcher.SendWelcomeEmail(customer); err != nil {
		log.Printf("Welcome email for customer %s failed: %v", task.EntityID, err)
	}
}

// SetRetryDelay overrides the retry delay. Tests use it to avoid real
// 60-second waits.
func (w *Worker) SetRetryDelay(d time.Duration) {
	w.retryDelay = d
}
