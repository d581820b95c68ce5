package port

import (
	"context"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
)

// ProfileStore owns the students and instructors tables.
type ProfileStore interface {
	// InsertStudentIfAbsent atomically inserts the profile row unless one
	// already exists for the same identity. A no-op on repeat log-ins.
	InsertStudentIfAbsent(ctx context.Context, p *domain.StudentProfile) error

	// InsertInstructorIfAbsent is the instructors-table counterpart.
	InsertInstructorIfAbsent(ctx context.Context, p *domain.InstructorProfile) error

	// GetStudentByEmail returns ErrProfileNotFound when no row exists.
	GetStudentByEmail(ctx context.Context, email string) (*domain.StudentProfile, error)

	// GetInstructorByEmail returns ErrProfileNotFound when no row exists.
	GetInstructorByEmail(ctx context.Context, email string) (*domain.InstructorProfile, error)
}
