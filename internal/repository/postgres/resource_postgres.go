package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

const (
	categoryColumns = "id, name, slug, description, created_at, updated_at, deleted_at"
	productColumns  = "id, category_id, name, sku, description, price, created_at, updated_at, deleted_at"
	serviceColumns  = "id, name, description, price, duration_minutes, created_at, updated_at, deleted_at"
)

// ResourcePostgres is a PostgreSQL implementation of repository.ResourceRepository
// for one catalog table. Rows are scanned into T through sqlx db tags.
type ResourcePostgres[T model.Record] struct {
	db        *sqlx.DB
	findByIDQ string
	findAllQ  string
}

func newResourcePostgres[T model.Record](db *sqlx.DB, table, columns string) *ResourcePostgres[T] {
	return &ResourcePostgres[T]{
		db:        db,
		findByIDQ: fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 LIMIT 1", columns, table),
		findAllQ:  fmt.Sprintf("SELECT %s FROM %s", columns, table),
	}
}

// NewCategoryPostgres reads the categories table.
func NewCategoryPostgres(db *sqlx.DB) *ResourcePostgres[model.Category] {
	return newResourcePostgres[model.Category](db, "categories", categoryColumns)
}

// NewProductPostgres reads the products table.
func NewProductPostgres(db *sqlx.DB) *ResourcePostgres[model.Product] {
	return newResourcePostgres[model.Product](db, "products", productColumns)
}

// NewServicePostgres reads the services table.
func NewServicePostgres(db *sqlx.DB) *ResourcePostgres[model.Service] {
	return newResourcePostgres[model.Service](db, "services", serviceColumns)
}

var (
	_ repository.ResourceRepository[model.Category] = (*ResourcePostgres[model.Category])(nil)
	_ repository.ResourceRepository[model.Product]  = (*ResourcePostgres[model.Product])(nil)
	_ repository.ResourceRepository[model.Service]  = (*ResourcePostgres[model.Service])(nil)
)

// FindByID fetches a single row by its id. sql.ErrNoRows is returned unchanged.
func (r *ResourcePostgres[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := r.db.GetContext(ctx, &out, r.findByIDQ, id); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindAll returns every row without filtering or pagination.
func (r *ResourcePostgres[T]) FindAll(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := r.db.SelectContext(ctx, &items, r.findAllQ); err != nil {
		return nil, err
	}
	return items, nil
}
