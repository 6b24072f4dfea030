package service

import (
	"context"
)

// Uploader stores remote media. source may be an io.Reader or a URL the
// provider fetches itself.
type Uploader interface {
	Upload(ctx context.Context, source any, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
