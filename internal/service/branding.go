package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"cmsapi/internal/storage"
)

var (
	ErrInvalidSettings      = errors.New("branding settings must be a JSON object")
	ErrBusinessNameRequired = errors.New("businessName is required")
)

const brandingKey = "branding-settings.json"

// BrandingSettings is the free-form settings object exactly as stored; only businessName is interpreted.
type BrandingSettings = json.RawMessage

type brandingRequired struct {
	BusinessName string `json:"businessName" validate:"required"`
}

// BrandingService persists the single, global branding settings document.
type BrandingService interface {
	// Save validates body and overwrites the stored settings with it (no merge).
	Save(ctx context.Context, body []byte) (BrandingSettings, error)

	// Get returns the stored settings or ErrNotFound when none were saved yet.
	Get(ctx context.Context) (BrandingSettings, error)
}

type brandingService struct {
	store    storage.Storage
	validate *validator.Validate
}

// NewBrandingService constructs a BrandingService on top of a Storage backend.
func NewBrandingService(store storage.Storage) BrandingService {
	return &brandingService{store: store, validate: validator.New()}
}

func (s *brandingService) Save(ctx context.Context, body []byte) (BrandingSettings, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, ErrInvalidSettings
	}

	var required brandingRequired
	if err := json.Unmarshal(body, &required); err != nil {
		return nil, ErrBusinessNameRequired
	}
	if err := s.validate.Struct(required); err != nil {
		return nil, ErrBusinessNameRequired
	}

	// Indent keeps key order and number literals as sent.
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(body), "", "  "); err != nil {
		return nil, fmt.Errorf("encode branding settings: %w", err)
	}
	if _, err := s.store.Put(ctx, brandingKey, bytes.NewReader(pretty.Bytes()), storage.PutObjectOptions{
		Size:        int64(pretty.Len()),
		ContentType: "application/json",
	}); err != nil {
		return nil, fmt.Errorf("write branding settings: %w", err)
	}
	return BrandingSettings(pretty.Bytes()), nil
}

func (s *brandingService) Get(ctx context.Context) (BrandingSettings, error) {
	rc, _, err := s.store.Get(ctx, brandingKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read branding settings: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("decode branding settings: %s holds invalid JSON", brandingKey)
	}
	return BrandingSettings(raw), nil
}
