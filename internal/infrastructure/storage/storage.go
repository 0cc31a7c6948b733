// Package storage provides object storage implementations for uploaded media.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/avaliaai/backend/internal/infrastructure/config"
)

// ObjectStorage stores uploaded media (event covers, owner-request
// proofs) and serves it back through stable public URLs.
type ObjectStorage interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether the object is present.
	Exists(ctx context.Context, key string) (bool, error)
	// PublicURL returns the URL the object is served from.
	PublicURL(key string) string
}

// New builds the storage backend selected by configuration.
func New(cfg *config.StorageConfig) (ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	switch cfg.Driver {
	case "s3":
		return NewS3ObjectStorage(cfg)
	case "stub", "":
		return NewStubObjectStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
