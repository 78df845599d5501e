package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is implemented by every catalog row that can be soft-deleted.
// Read-by-id lookups treat a deleted record exactly like a missing one.
type Record interface {
	IsDeleted() bool
}

// Category is a row of the categories table.
type Category struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Slug        string     `db:"slug" json:"slug"`
	Description *string    `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deletedAt"`
}

func (c Category) IsDeleted() bool { return c.DeletedAt != nil }

// Product is a row of the products table.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	CategoryID  *int64          `db:"category_id" json:"categoryId"`
	Name        string          `db:"name" json:"name"`
	SKU         string          `db:"sku" json:"sku"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time      `db:"deleted_at" json:"deletedAt"`
}

func (p Product) IsDeleted() bool { return p.DeletedAt != nil }

// Service is a row of the services table: a bookable offering rather than a physical product.
type Service struct {
	ID              int64           `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Description     *string         `db:"description" json:"description"`
	Price           decimal.Decimal `db:"price" json:"price"`
	DurationMinutes int             `db:"duration_minutes" json:"durationMinutes"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
	DeletedAt       *time.Time      `db:"deleted_at" json:"deletedAt"`
}

func (s Service) IsDeleted() bool { return s.DeletedAt != nil }
