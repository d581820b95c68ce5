package domain

// Role tags an identity as student or instructor. It is written into the
// identity's metadata under the "role" key at registration time.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// Metadata is the free-form key/value data attached to an identity when it
// is registered with the platform.
type Metadata map[string]any

// String returns the metadata value for key if it is a non-empty string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

// Identity is the platform-owned user record. This service only reads it;
// credential verification and session issuance stay with the platform.
type Identity struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Metadata   Metadata         `json:"user_metadata"`
	Identities []LinkedIdentity `json:"identities"`
	CreatedAt  string           `json:"created_at,omitempty"`
}

// LinkedIdentity is one provider-side identity linked to a user record.
// The platform returns an empty list on sign-up when the email is already
// registered, and on sign-in when the account is unconfirmed.
type LinkedIdentity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// Role returns the explicit role tag when present. Identities registered
// before the tag existed fall back to the image-presence heuristic: only
// instructors carry an image in their metadata.
func (u *Identity) Role() Role {
	if r := u.Metadata.String("role"); r != "" {
		return Role(r)
	}
	if u.Metadata.String("image") != "" {
		return RoleInstructor
	}
	return RoleStudent
}

// UserContext is the authenticated user context injected into request
// handlers after session verification.
type UserContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// StudentRegistration holds the student sign-up form fields.
type StudentRegistration struct {
	Email    string
	Password string
	Interest string
	Name     string
}

// InstructorRegistration holds the instructor sign-up form fields,
// including the raw profile image.
type InstructorRegistration struct {
	Email            string
	Password         string
	Interest         string
	Name             string
	Occupation       string
	Bio              string
	URL              string
	Image            []byte
	ImageContentType string
}

// Login holds the log-in form fields shared by both roles.
type Login struct {
	Email    string
	Password string
}
