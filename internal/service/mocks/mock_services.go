package mocks

import (
	"context"
	"encoding/json"

	"cmsapi/internal/model"
	"cmsapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockResourceService[T model.Record] struct {
	mock.Mock
}

func (m *MockResourceService[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockResourceService[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

type MockPageService struct {
	mock.Mock
}

func (m *MockPageService) Get(ctx context.Context, slug string) (json.RawMessage, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockPageService) Put(ctx context.Context, slug string, body []byte) (json.RawMessage, error) {
	args := m.Called(ctx, slug, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockPageService) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type MockBrandingService struct {
	mock.Mock
}

func (m *MockBrandingService) Save(ctx context.Context, body []byte) (service.BrandingSettings, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.BrandingSettings), args.Error(1)
}

func (m *MockBrandingService) Get(ctx context.Context) (service.BrandingSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.BrandingSettings), args.Error(1)
}

type MockEmailLogService struct {
	mock.Mock
}

func (m *MockEmailLogService) GetLog(ctx context.Context, id string) (*model.EmailLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailLog), args.Error(1)
}

func (m *MockEmailLogService) Resend(ctx context.Context, id string) (*service.ResendResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResendResult), args.Error(1)
}
