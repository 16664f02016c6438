// Package notifications formats and sends the SMS/email side effects of
// order placement and customer registration, and runs the queue worker that
// executes them asynchronously.
package notifications

import (
	"fmt"
	"log"
	"strings"

	"duka/internal/models"
)

// Status is the outcome of one send attempt on one channel.
type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// SMSSender sends a text message to one or more phone numbers. The boolean
// reports whether the provider accepted the message; a non-nil error means
// the call itself failed and the attempt may be retried.
type SMSSender interface {
	Send(message string, recipients []string) (bool, error)
}

// EmailSender sends one email with an HTML body and a plain-text fallback.
// Same contract as SMSSender: error is transport failure, boolean is the
// provider's verdict.
type EmailSender interface {
	Send(subject, recipient, htmlBody, textBody string) (bool, error)
}

// DispatchResult reports the per-channel outcome of notifying an order.
type DispatchResult struct {
	SMS   Status `json:"sms"`
	Email Status `json:"email"`
}

// Dispatcher sends order and customer notifications. It is stateless; retry
// policy lives in the worker.
type Dispatcher struct {
	sms        SMSSender
	email      EmailSender
	adminEmail string
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(sms SMSSender, email EmailSender, adminEmail string) *Dispatcher {
	return &Dispatcher{
		sms:        sms,
		email:      email,
		adminEmail: adminEmail,
	}
}

// CleanPhoneNumber strips everything but digits and '+' from a phone number.
func CleanPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SendOrderSMS sends the order confirmation SMS to the customer. The send is
// skipped (not failed) when the order total is not positive or the customer
// has no phone number on file. The returned error is non-nil only for
// transport failures, which the worker retries; a provider rejection comes
// back as (StatusFailed, nil) and is final.
func (d *Dispatcher) SendOrderSMS(order *models.Order, customer *models.Customer) (Status, error) {
	if order.TotalAmount <= 0 {
		log.Printf("Skipping SMS for order %s: total is %.0f", order.OrderNumber, order.TotalAmount)
		return StatusSkipped, nil
	}
	phone := CleanPhoneNumber(customer.Phone)
	if phone == "" {
		log.Printf("Skipping SMS for order %s: customer %s has no phone number", order.OrderNumber, customer.ID)
		return StatusSkipped, nil
	}

	message := fmt.Sprintf("Hi %s,\nYour order #%s is confirmed!\nTotal: KES %.0f\n",
		customer.FirstName, order.OrderNumber, order.TotalAmount)

	ok, err := d.sms.Send(message, []string{phone})
	if err != nil {
		log.Printf("Error sending SMS for order %s: %v", order.OrderNumber, err)
		return StatusFailed, err
	}
	if !ok {
		log.Printf("SMS rejected by provider for order %s", order.OrderNumber)
		return StatusFailed, nil
	}
	log.Printf("SMS sent for order %s", order.OrderNumber)
	return StatusSent, nil
}

// SendOrderAdminEmail notifies the store admin about a new order. Skipped
// when the order total is not positive.
func (d *Dispatcher) SendOrderAdminEmail(order *models.Order, customer *models.Customer) (Status, error) {
	if order.TotalAmount <= 0 {
		log.Printf("Skipping admin email for order %s: total is %.0f", order.OrderNumber, order.TotalAmount)
		return StatusSkipped, nil
	}

	subject := fmt.Sprintf("New Order Received - #%s", order.OrderNumber)
	htmlBody := fmt.Sprintf(
		"<h2>New order #%s</h2><p>Customer: %s (%s)</p><p>Items: %d</p><p><strong>Total: KES %.0f</strong></p>",
		order.OrderNumber, customer.FullName(), customer.Email, len(order.Items), order.TotalAmount)
	textBody := fmt.Sprintf("New order #%s\nCustomer: %s (%s)\nItems: %d\nTotal: KES %.0f\n",
		order.OrderNumber, customer.FullName(), customer.Email, len(order.Items), order.TotalAmount)

	ok, err := d.email.Send(subject, d.adminEmail, htmlBody, textBody)
	if err != nil {
		log.Printf("Error sending admin email for order %s: %v", order.OrderNumber, err)
		return StatusFailed, err
	}
	if !ok {
		log.Printf("Admin email rejected for order %s", order.OrderNumber)
		return StatusFailed, nil
	}
	log.Printf("Admin email sent for order %s", order.OrderNumber)
	return StatusSent, nil
}

// SendWelcomeEmail greets a newly registered customer. Single attempt, no
// retry policy.
func (d *Dispatcher) SendWelcomeEmail(customer *models.Customer) (Status, error) {
	if customer.Email == "" {
		return StatusSkipped, nil
	}

	subject := "Welcome to Duka!"
	htmlBody := fmt.Sprintf("<h2>Welcome, %s!</h2><p>Your account is ready. Happy shopping.</p>",
		customer.FirstName)
	textBody := fmt.Sprintf("Welcome, %s!\nYour account is ready. Happy shopping.\n", customer.FirstName)

	ok, err := d.email.Send(subject, customer.Email, htmlBody, textBody)
	if err != nil {
		log.Printf("Error sending welcome email to %s: %v", customer.Email, err)
		return StatusFailed, err
	}
	if !ok {
		log.Printf("Welcome email rejected for %s", customer.Email)
		return StatusFailed, nil
	}
	log.Printf("Welcome email sent to %s", customer.Email)
	return StatusSent, nil
}

// NotifyOrderPlaced attempts both order notification channels independently:
// a failure on one never blocks the other.
func (d *Dispatcher) NotifyOrderPlaced(order *models.Order, customer *models.Customer) DispatchResult {
	smsStatus, _ := d.SendOrderSMS(order, customer)
	emailStatus, _ := d.SendOrderAdminEmail(order, customer)
	return DispatchResult{SMS: smsStatus, Email: emailStatus}
}
