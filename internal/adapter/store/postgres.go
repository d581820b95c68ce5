package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
	"github.com/arturoeanton/go-course-accounts/internal/port"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Students ---

// InsertStudentIfAbsent creates the student's profile row on first log-in.
// The insert is atomic: concurrent first log-ins race harmlessly, the
// loser hits the conflict clause and writes nothing.
func (s *PostgresStore) InsertStudentIfAbsent(ctx context.Context, p *domain.StudentProfile) error {
	query := `
		INSERT INTO students (id, email, name, interest, following_list)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Email, p.Name, p.Interest, pq.Array(p.FollowingList),
	)
	if err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// GetStudentByEmail retrieves a student profile row by email.
func (s *PostgresStore) GetStudentByEmail(ctx context.Context, email string) (*domain.StudentProfile, error) {
	query := `SELECT id, email, name, interest, following_list, created_at
	          FROM students WHERE email = $1`

	var p domain.StudentProfile
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.Name, &p.Interest, pq.Array(&p.FollowingList), &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &p, nil
}

// --- Instructors ---

// InsertInstructorIfAbsent creates the instructor's profile row on first
// log-in, with the same conflict semantics as the students table.
func (s *PostgresStore) InsertInstructorIfAbsent(ctx context.Context, p *domain.InstructorProfile) error {
	query := `
		INSERT INTO instructors (id, email, name, interest, occupation, bio, url, image, followers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Email, p.Name, p.Interest, p.Occupation, p.Bio, p.URL, p.Image, pq.Array(p.Followers),
	)
	if err != nil {
		return fmt.Errorf("insert instructor: %w", err)
	}
	return nil
}

// GetInstructorByEmail retrieves an instructor profile row by email.
func (s *PostgresStore) GetInstructorByEmail(ctx context.Context, email string) (*domain.InstructorProfile, error) {
	query := `SELECT id, email, name, interest, occupation, bio, url, image, followers, created_at
	          FROM instructors WHERE email = $1`

	var p domain.InstructorProfile
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.Name, &p.Interest, &p.Occupation, &p.Bio, &p.URL, &p.Image,
		pq.Array(&p.Followers), &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get instructor: %w", err)
	}
	return &p, nil
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (user_id, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		userID, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}
