package repository

import (
	"context"

	"cmsapi/internal/model"
)

// ResourceRepository defines read access to one catalog table.
// No business logic here: soft-deleted rows are returned as stored.
type ResourceRepository[T model.Record] interface {
	// FindByID returns the row with the given id or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*T, error)

	// FindAll returns every row of the table in the store's natural order.
	FindAll(ctx context.Context) ([]T, error)
}
