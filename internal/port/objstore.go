package port

import (
	"context"
	"io"
)

// ObjectStore abstracts the platform's storage buckets.
type ObjectStore interface {
	// Upload stores an object and returns its full path ("bucket/key"),
	// which callers join with the configured public base URL.
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)

	// Remove deletes an object. Used for best-effort cleanup only.
	Remove(ctx context.Context, bucket, key string) error
}
