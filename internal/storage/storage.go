// Package storage abstracts where uploaded image bytes live. The API
// core only keeps references (filename, path, URL); the bytes go to a
// backend selected at startup: local disk or an S3-compatible store.
package storage

import (
	"context"
	"io"
)

// Storage persists an uploaded file under a key and returns its public URL.
type Storage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
