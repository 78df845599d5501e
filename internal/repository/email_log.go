package repository

import (
	"context"

	"cmsapi/internal/model"
)

// EmailLogRepository persists email delivery logs.
type EmailLogRepository interface {
	// Create inserts a new log row.
	Create(ctx context.Context, log *model.EmailLog) error

	// FindByID returns a log by its id or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.EmailLog, error)
}
