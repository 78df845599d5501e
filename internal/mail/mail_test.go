package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmsapi/internal/config"
)

func newTestSender(t *testing.T, h http.HandlerFunc) *ResendSender {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client := resend.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewResendWithClient(client, "CMS <noreply@example.com>")
}

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	})

	id, err := sender.Send(context.Background(), Message{To: "jane@example.com", Subject: "Hi", HTML: "<p>hi</p>"})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "CMS <noreply@example.com>", got["from"])
	assert.Equal(t, []any{"jane@example.com"}, got["to"])
	assert.Equal(t, "Hi", got["subject"])
}

func TestResendSender_ProviderError(t *testing.T) {
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	})

	id, err := sender.Send(context.Background(), Message{To: "not-an-email"})

	assert.Empty(t, id)
	assert.ErrorContains(t, err, "failed to send email")
}

func TestNewResend_WithoutKey(t *testing.T) {
	sender := NewResend(config.MailConfig{})

	_, err := sender.Send(context.Background(), Message{To: "jane@example.com"})

	assert.ErrorIs(t, err, ErrNotConfigured)
}
