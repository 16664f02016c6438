package notifications_test

import (
	"fmt"
	"testing"

	"duka/internal/models"
	"duka/internal/notifications"

	"github.com/stretchr/testify/assert"
)

// fakeSMSSender records calls and returns a scripted outcome.
type fakeSMSSender struct {
	calls      int
	recipients []string
	ok         bool
	err        error
}

func (f *fakeSMSSender) Send(message string, recipients []string) (bool, error) {
	f.calls++
	f.recipients = recipients
	return f.ok, f.err
}

// fakeEmailSender records calls and returns a scripted outcome.
type fakeEmailSender struct {
	calls     int
	recipient string
	subject   string
	ok        bool
	err       error
}

func (f *fakeEmailSender) Send(subject, recipient, htmlBody, textBody string) (bool, error) {
	f.calls++
	f.recipient = recipient
	f.subject = subject
	return f.ok, f.err
}

func testOrder(total float64) *models.Order {
	return &models.Order{
		ID:          "order-1",
		OrderNumber: "ORD12345678",
		CustomerID:  "cust-1",
		Status:      models.StatusPending,
		TotalAmount: total,
	}
}

func testCustomer(phone string) *models.Customer {
	return &models.Customer{
		ID:        "cust-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Wanjiku",
		Phone:     phone,
	}
}

func TestNotifyOrderPlaced_ZeroTotalSkipsBothChannels(t *testing.T) {
	smsSender := &fakeSMSSender{ok: true}
	emailSender := &fakeEmailSender{ok: true}
	d := notifications.NewDispatcher(smsSender, emailSender, "admin@example.com")

	result := d.NotifyOrderPlaced(testOrder(0), testCustomer("0700000000"))

	assert.Equal(t, notifications.StatusSkipped, result.SMS)
	assert.Equal(t, notifications.StatusSkipped, result.Email)
	// No provider call may be made for a zero-total order.
	assert.Zero(t, smsSender.calls)
	assert.Zero(t, emailSender.calls)
}

func TestNotifyOrderPlaced_NoPhoneSkipsSMSButAttemptsEmail(t *testing.T) {
	smsSender := &fakeSMSSender{ok: true}
	emailSender := &fakeEmailSender{ok: true}
	d := notifications.NewDispatcher(smsSender, emailSender, "admin@example.com")

	result := d.NotifyOrderPlaced(testOrder(500), testCustomer(""))

	assert.Equal(t, notifications.StatusSkipped, result.SMS)
	assert.Equal(t, notifications.StatusSent, result.Email)
	assert.Zero(t, smsSender.calls)
	assert.Equal(t, 1, emailSender.calls)
	assert.Equal(t, "admin@example.com", emailSender.recipient)
}

func TestNotifyOrderPlaced_SMSFailureDoesNotBlockEmail(t *testing.T) {
	smsSender := &fakeSMSSender{ok: false, err: fmt.Errorf("connection refused")}
	emailSender := &fakeEmailSender{ok: true}
	d := notifications.NewDispatcher(smsSender, emailSender, "admin@example.com")

	result := d.NotifyOrderPlaced(testOrder(500), testCustomer("0700000000"))

	assert.Equal(t, notifications.StatusFailed, result.SMS)
	assert.Equal(t, notifications.StatusSent, result.Email)
	assert.Equal(t, 1, emailSender.calls)
}

func TestSendOrderSMS_TransportErrorVsRejection(t *testing.T) {
	// Transport error: status failed AND error returned (retryable).
	smsSender := &fakeSMSSender{err: fmt.Errorf("timeout")}
	d := notifications.NewDispatcher(smsSender, &fakeEmailSender{}, "admin@example.com")

	status, err := d.SendOrderSMS(testOrder(500), testCustomer("0700000000"))
	assert.Equal(t, notifications.StatusFailed, status)
	assert.Error(t, err)

	// Provider rejection: status failed but no error (final, no retry).
	smsSender = &fakeSMSSender{ok: false}
	d = notifications.NewDispatcher(smsSender, &fakeEmailSender{}, "admin@example.com")

	status, err = d.SendOrderSMS(testOrder(500), testCustomer("0700000000"))
	assert.Equal(t, notifications.StatusFailed, status)
	assert.NoError(t, err)
}

func TestSendOrderSMS_CleansPhoneNumber(t *testing.T) {
	smsSender := &fakeSMSSender{ok: true}
	d := notifications.NewDispatcher(smsSender, &fakeEmailSender{}, "admin@example.com")

	status, err := d.SendOrderSMS(testOrder(500), testCustomer("+254 (700) 000-000"))
	assert.NoError(t, err)
	assert.Equal(t, notifications.StatusSent, status)
	assert.Equal(t, []string{"+254700000000"}, smsSender.recipients)
}

func TestSendWelcomeEmail(t *testing.T) {
	emailSender := &fakeEmailSender{ok: true}
	d := notifications.NewDispatcher(&fakeSMSSender{}, emailSender, "admin@example.com")

	status, err := d.SendWelcomeEmail(testCustomer("0700000000"))
	assert.NoError(t, err)
	assert.Equal(t, notifications.StatusSent, status)
	assert.Equal(t, "jane@example.com", emailSender.recipient)
}

func TestCleanPhoneNumber(t *testing.T) {
	assert.Equal(t, "+254700000000", notifications.CleanPhoneNumber("+254 700-000 000"))
	assert.Equal(t, "0700000000", notifications.CleanPhoneNumber("07 00 00 00 00"))
	assert.Equal(t, "", notifications.CleanPhoneNumber("n/a"))
}
