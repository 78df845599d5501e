package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

// EmailLogPostgres is a PostgreSQL implementation of repository.EmailLogRepository.
type EmailLogPostgres struct {
	db *sqlx.DB
}

// NewEmailLogPostgres creates a new EmailLogPostgres repository.
func NewEmailLogPostgres(db *sqlx.DB) *EmailLogPostgres {
	return &EmailLogPostgres{db: db}
}

var _ repository.EmailLogRepository = (*EmailLogPostgres)(nil)

// Create inserts a new email log row.
func (r *EmailLogPostgres) Create(ctx context.Context, log *model.EmailLog) error {
	const q = `
		INSERT INTO email_logs (id, recipient, subject, html_body, status, error, provider_message_id, resent_from, created_at, sent_at)
		VALUES (:id, :recipient, :subject, :html_body, :status, :error, :provider_message_id, :resent_from, :created_at, :sent_at)
	`
	_, err := r.db.NamedExecContext(ctx, q, log)
	return err
}

// FindByID fetches a single email log by its id.
func (r *EmailLogPostgres) FindByID(ctx context.Context, id string) (*model.EmailLog, error) {
	const q = `
		SELECT id, recipient, subject, html_body, status, error, provider_message_id, resent_from, created_at, sent_at
		FROM email_logs
		WHERE id = $1
		LIMIT 1
	`
	var l model.EmailLog
	if err := r.db.GetContext(ctx, &l, q, id); err != nil {
		return nil, err
	}
	return &l, nil
}
