package service

// Notification event types published to connected clients.
const (
	EventQuotationSent   = "quotation-sent"
	EventOrderConfirmed  = "order-confirmed"
	EventPaymentReceived = "payment-received"
	EventPickupReminder  = "pickup-reminder"
	EventReturnReminder  = "return-reminder"
	EventReturnSettled   = "return-settled"
)

// Notifier delivers lifecycle events to interested clients. Publish is
// fire-and-forget; services call it after the transaction commits so
// rolled-back transitions are never announced.
type Notifier interface {
	Publish(event string, payload any)
}

// NopNotifier discards events. Used in tests and when the hub is disabled.
type NopNotifier struct{}

func (NopNotifier) Publish(string, any) {}
