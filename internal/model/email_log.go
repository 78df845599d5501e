package model

import "time"

// Email log delivery states.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records one delivery attempt of an outgoing email.
// A resend produces a new log whose ResentFrom points at the original.
type EmailLog struct {
	ID                string     `db:"id" json:"id"`
	Recipient         string     `db:"recipient" json:"recipient"`
	Subject           string     `db:"subject" json:"subject"`
	HTMLBody          string     `db:"html_body" json:"htmlBody"`
	Status            string     `db:"status" json:"status"`
	Error             *string    `db:"error" json:"error"`
	ProviderMessageID *string    `db:"provider_message_id" json:"providerMessageId"`
	ResentFrom        *string    `db:"resent_from" json:"resentFrom"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	SentAt            *time.Time `db:"sent_at" json:"sentAt"`
}
