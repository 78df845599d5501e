// Package mail delivers outgoing emails through the Resend API.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cmsapi/internal/config"
)

// ErrNotConfigured is returned by a sender created without an API key.
var ErrNotConfigured = errors.New("mail sender is not configured")

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendSender sends through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResend builds a Resend-backed sender. Without an API key every Send fails with ErrNotConfigured,
// so the rest of the service still starts.
func NewResend(cfg config.MailConfig) Sender {
	if cfg.ResendAPIKey == "" {
		return unconfigured{}
	}
	httpClient := &http.Client{
		Timeout:   15 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &ResendSender{client: resend.NewCustomClient(httpClient, cfg.ResendAPIKey), from: cfg.From}
}

// NewResendWithClient is NewResend with a caller-supplied client.
func NewResendWithClient(client *resend.Client, from string) *ResendSender {
	return &ResendSender{client: client, from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

type unconfigured struct{}

func (unconfigured) Send(context.Context, Message) (string, error) {
	return "", ErrNotConfigured
}
