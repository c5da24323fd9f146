// Package storage keeps uploaded files (attachments and floor plans) in an
// object store and builds their keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/config"
	"go.uber.org/zap"
)

// ObjectStore is the blob store behind attachments and floor plans.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL returns the address clients fetch key from.
	URL(key string) string
	Delete(ctx context.Context, key string) error
}

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("storage key is required")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName reduces a client file name to a safe key segment.
func SanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = unsafeName.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	if len(base) > 120 {
		base = base[len(base)-120:]
	}
	return base
}

// Key builds projects/<projectID>/<segment>/<uuid>-<name>. The random
// prefix keeps repeated uploads of the same name apart.
func Key(projectID, segment, fileName string) string {
	return path.Join("projects", projectID, segment, uuid.NewString()+"-"+SanitizeName(fileName))
}

// New builds the store selected by cfg.Driver.
func New(cfg config.StorageConfig, log *zap.Logger) (ObjectStore, error) {
	switch cfg.Driver {
	case "local", "":
		s, err := NewLocalStore(cfg.Dir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Store(cfg, WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
