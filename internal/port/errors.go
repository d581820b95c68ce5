package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ProviderError is a failure reported by the identity provider. The
// provider's HTTP status and human-readable message are preserved so they
// can be propagated to the caller verbatim.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
