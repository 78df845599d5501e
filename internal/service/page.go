package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"

	"cmsapi/internal/storage"
)

var (
	ErrSlugRequired    = errors.New("slug is required")
	ErrInvalidSlug     = errors.New("slug may only contain letters, digits, '-' and '_'")
	ErrInvalidDocument = errors.New("page document must be a JSON object")
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

const pagesPrefix = "pages/"

// PageService stores page documents, one JSON object per slug.
type PageService interface {
	// Get returns the stored document for slug.
	Get(ctx context.Context, slug string) (json.RawMessage, error)

	// Put replaces the document stored for slug with body, verbatim.
	Put(ctx context.Context, slug string, body []byte) (json.RawMessage, error)

	// Delete removes the document stored for slug.
	Delete(ctx context.Context, slug string) error
}

type pageService struct {
	store storage.Storage
}

// NewPageService constructs a PageService on top of a Storage backend.
func NewPageService(store storage.Storage) PageService {
	return &pageService{store: store}
}

// pageKey validates slug and maps it to its storage key.
// Validation happens before any key is composed so a slug can never address a path outside pages/.
func pageKey(slug string) (string, error) {
	if slug == "" {
		return "", ErrSlugRequired
	}
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return pagesPrefix + slug + ".json", nil
}

func (s *pageService) Get(ctx context.Context, slug string) (json.RawMessage, error) {
	key, err := pageKey(slug)
	if err != nil {
		return nil, err
	}
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", slug, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("page %s: stored content is not valid JSON", slug)
	}
	return json.RawMessage(raw), nil
}

func (s *pageService) Put(ctx context.Context, slug string, body []byte) (json.RawMessage, error) {
	key, err := pageKey(slug)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		return nil, ErrInvalidDocument
	}

	if _, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
	}); err != nil {
		return nil, fmt.Errorf("write page %s: %w", slug, err)
	}
	return json.RawMessage(body), nil
}

func (s *pageService) Delete(ctx context.Context, slug string) error {
	key, err := pageKey(slug)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
