package object

import (
	"context"
	"io"
)

// Store defines the contract for saving and retrieving review artifacts.
type Store interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
