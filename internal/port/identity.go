package port

import (
	"context"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
)

// IdentityProvider abstracts the hosted auth platform. Implementations
// handle registration and password sign-in against the platform's API;
// password hashing and token issuance stay on the platform side.
type IdentityProvider interface {
	// SignUp registers a new identity with the given metadata attached.
	// Provider-reported failures come back as *ProviderError.
	SignUp(ctx context.Context, email, password string, metadata domain.Metadata) (*domain.Identity, error)

	// SignIn authenticates with the password grant and returns the
	// identity embedded in the session.
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
}
