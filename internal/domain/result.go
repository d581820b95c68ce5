package domain

import "net/http"

// Result is the uniform contract returned by every provisioning operation:
// error is set exactly when user is nil, and status carries the HTTP status
// the caller should respond with.
type Result struct {
	Error  *string   `json:"error"`
	Status int       `json:"status"`
	User   *Identity `json:"user"`
}

// Success wraps an identity in a 200 result.
func Success(user *Identity) *Result {
	return &Result{Status: http.StatusOK, User: user}
}

// Failure builds an error result with the given status and message.
func Failure(status int, message string) *Result {
	return &Result{Error: &message, Status: status}
}

// OK reports whether the result represents a successful operation.
func (r *Result) OK() bool {
	return r.Error == nil
}
