package service

import (
	"context"
	"database/sql"
	"errors"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

// ErrNotFound is returned when the requested record, document or log does not exist.
var ErrNotFound = errors.New("not found")

// ResourceService defines read use cases shared by categories, products and services.
type ResourceService[T model.Record] interface {
	// Get returns the record with the given id. Missing and soft-deleted records both yield ErrNotFound.
	Get(ctx context.Context, id int64) (*T, error)

	// List returns every record as stored, soft-deleted ones included.
	List(ctx context.Context) ([]T, error)
}

type resourceService[T model.Record] struct {
	repo repository.ResourceRepository[T]
}

// NewResourceService constructs a ResourceService over one table repository.
func NewResourceService[T model.Record](repo repository.ResourceRepository[T]) ResourceService[T] {
	return &resourceService[T]{repo: repo}
}

func (s *resourceService[T]) Get(ctx context.Context, id int64) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec == nil || (*rec).IsDeleted() {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *resourceService[T]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
