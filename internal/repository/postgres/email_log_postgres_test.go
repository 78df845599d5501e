package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmsapi/internal/model"
)

var emailLogCols = []string{"id", "recipient", "subject", "html_body", "status", "error", "provider_message_id", "resent_from", "created_at", "sent_at"}

func TestEmailLogPostgres_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailLogPostgres(db)

	orig := "orig-id"
	providerID := "re_123"
	now := time.Now().UTC()
	log := &model.EmailLog{
		ID:                "new-id",
		Recipient:         "jane@example.com",
		Subject:           "Welcome",
		HTMLBody:          "<p>hi</p>",
		Status:            model.EmailStatusSent,
		ProviderMessageID: &providerID,
		ResentFrom:        &orig,
		CreatedAt:         now,
		SentAt:            &now,
	}

	mock.ExpectExec("INSERT INTO email_logs").
		WithArgs("new-id", "jane@example.com", "Welcome", "<p>hi</p>", "sent", nil, "re_123", "orig-id", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), log)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailLogPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailLogPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(emailLogCols).
			AddRow("log-1", "jane@example.com", "Welcome", "<p>hi</p>", "failed", "bounced", nil, nil, time.Now(), nil)
		mock.ExpectQuery("SELECT (.+) FROM email_logs WHERE id = \\$1").
			WithArgs("log-1").
			WillReturnRows(rows)

		l, err := repo.FindByID(ctx, "log-1")

		require.NoError(t, err)
		assert.Equal(t, "log-1", l.ID)
		assert.Equal(t, model.EmailStatusFailed, l.Status)
		require.NotNil(t, l.Error)
		assert.Equal(t, "bounced", *l.Error)
		assert.Nil(t, l.SentAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM email_logs WHERE id = \\$1").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		l, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, l)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
