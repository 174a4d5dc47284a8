package domain

import "time"

// Provider identifies a payment provider integration.
type Provider string

const (
	ProviderAdyen      Provider = "adyen"
	ProviderWise       Provider = "wise"
	ProviderGoCardless Provider = "gocardless"
)

// ProviderLogEntry is one immutable line of the per payment method audit log.
type ProviderLogEntry struct {
	ID              string    `json:"id"`
	PaymentMethodID int       `json:"paymentMethodID"`
	Provider        Provider  `json:"provider"`
	Message         string    `json:"message"`
	IsError         bool      `json:"isError"`
	CreatedAt       time.Time `json:"createdAt"`
}

// QueuedMail is a message handed to the mail queue for asynchronous delivery.
type QueuedMail struct {
	ID           string    `json:"id"`
	Sender       string    `json:"sender"`
	Receiver     string    `json:"receiver"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	SendAt       time.Time `json:"sendAt"`
	RegisteredAt time.Time `json:"registeredAt"`
}
