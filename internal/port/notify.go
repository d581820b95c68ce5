package port

import "context"

// Revalidator signals the presentation layer that cached pages should be
// rebuilt after a successful account operation.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}
