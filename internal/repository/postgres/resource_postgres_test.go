package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

var (
	categoryCols = []string{"id", "name", "slug", "description", "created_at", "updated_at", "deleted_at"}
	productCols  = []string{"id", "category_id", "name", "sku", "description", "price", "created_at", "updated_at", "deleted_at"}
	serviceCols  = []string{"id", "name", "description", "price", "duration_minutes", "created_at", "updated_at", "deleted_at"}
)

func TestCategoryPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(categoryCols).
			AddRow(7, "Shoes", "shoes", "All shoes", now, now, nil)
		mock.ExpectQuery("SELECT (.+) FROM categories WHERE id = \\$1 LIMIT 1").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		cat, err := repo.FindByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), cat.ID)
		assert.Equal(t, "shoes", cat.Slug)
		require.NotNil(t, cat.Description)
		assert.Equal(t, "All shoes", *cat.Description)
		assert.Nil(t, cat.DeletedAt)
	})

	t.Run("soft deleted row is returned as stored", func(t *testing.T) {
		rows := sqlmock.NewRows(categoryCols).
			AddRow(8, "Old", "old", nil, now, now, now)
		mock.ExpectQuery("SELECT (.+) FROM categories WHERE id = \\$1").
			WithArgs(int64(8)).
			WillReturnRows(rows)

		cat, err := repo.FindByID(ctx, 8)

		require.NoError(t, err)
		assert.True(t, cat.IsDeleted())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM categories WHERE id = \\$1").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(categoryCols))

		cat, err := repo.FindByID(ctx, 404)

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, cat)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(productCols).
		AddRow(3, 7, "Runner", "RUN-1", nil, "59.90", now, now, nil)
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	p, err := repo.FindByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "RUN-1", p.SKU)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, int64(7), *p.CategoryID)
	assert.True(t, decimal.RequireFromString("59.90").Equal(p.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServicePostgres_FindAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServicePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("returns every row in order", func(t *testing.T) {
		rows := sqlmock.NewRows(serviceCols).
			AddRow(2, "Haircut", nil, "15.00", 30, now, now, nil).
			AddRow(1, "Massage", "Full body", "40.00", 60, now, now, now)
		mock.ExpectQuery("SELECT (.+) FROM services$").WillReturnRows(rows)

		items, err := repo.FindAll(ctx)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(2), items[0].ID)
		assert.Equal(t, int64(1), items[1].ID)
		assert.Equal(t, 60, items[1].DurationMinutes)
		assert.True(t, items[1].IsDeleted())
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM services$").WillReturnRows(sqlmock.NewRows(serviceCols))

		items, err := repo.FindAll(ctx)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM services$").WillReturnError(errors.New("connection reset"))

		items, err := repo.FindAll(ctx)

		assert.EqualError(t, err, "connection reset")
		assert.Nil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
