package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
	"github.com/arturoeanton/go-course-accounts/internal/port"
)

// AccountService implements the four account provisioning operations:
// student/instructor sign-up and log-in. Identity, passwords and file
// storage are owned by the platform; this service calls it, mirrors a
// projection of the identity into the role tables, and shapes the uniform
// {error, status, user} result.
type AccountService struct {
	provider port.IdentityProvider
	storage  port.ObjectStore
	profiles port.ProfileStore

	headshotBucket   string
	storagePublicURL string
}

// NewAccountService creates an account service with all collaborators
// injected. storagePublicURL is the base the instructor image URL is
// composed from; it is joined with the full path the upload reports.
func NewAccountService(
	provider port.IdentityProvider,
	storage port.ObjectStore,
	profiles port.ProfileStore,
	headshotBucket string,
	storagePublicURL string,
) *AccountService {
	return &AccountService{
		provider:         provider,
		storage:          storage,
		profiles:         profiles,
		headshotBucket:   headshotBucket,
		storagePublicURL: storagePublicURL,
	}
}

// StudentSignUp registers a new student identity. No profile row is
// written here; provisioning is deferred to the first log-in.
func (s *AccountService) StudentSignUp(ctx context.Context, form domain.StudentRegistration) *domain.Result {
	user, err := s.provider.SignUp(ctx, form.Email, form.Password, domain.Metadata{
		"interest": form.Interest,
		"name":     form.Name,
		"role":     string(domain.RoleStudent),
	})
	if err != nil {
		return resultFromError(err)
	}

	// The platform reports an existing email as a success with no new
	// identities attached.
	if len(user.Identities) == 0 {
		return domain.Failure(http.StatusConflict, "User already exists")
	}

	slog.Info("student registered", "id", user.ID)
	return domain.Success(user)
}

// StudentLogIn authenticates a student and provisions the students-table
// row on first log-in. Repeat log-ins are idempotent.
func (s *AccountService) StudentLogIn(ctx context.Context, form domain.Login) *domain.Result {
	user, err := s.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		return resultFromError(err)
	}

	if user.Role() != domain.RoleStudent {
		return domain.Failure(http.StatusBadRequest, "You are not a student")
	}

	profile := &domain.StudentProfile{
		ID:            user.ID,
		Email:         form.Email,
		Name:          user.Metadata.String("name"),
		Interest:      user.Metadata.String("interest"),
		FollowingList: []string{},
	}
	if err := s.profiles.InsertStudentIfAbsent(ctx, profile); err != nil {
		return domain.Failure(http.StatusInternalServerError, err.Error())
	}

	return domain.Success(user)
}

// InstructorSignUp uploads the profile image, then registers a new
// instructor identity whose metadata carries the composed image URL.
func (s *AccountService) InstructorSignUp(ctx context.Context, form domain.InstructorRegistration) *domain.Result {
	key := uuid.NewString() + "/image"
	fullPath, err := s.storage.Upload(ctx, s.headshotBucket, key, bytes.NewReader(form.Image), form.ImageContentType)
	if err != nil {
		return domain.Failure(http.StatusInternalServerError, err.Error())
	}
	imageURL := s.storagePublicURL + fullPath

	user, err := s.provider.SignUp(ctx, form.Email, form.Password, domain.Metadata{
		"interest":   form.Interest,
		"name":       form.Name,
		"occupation": form.Occupation,
		"bio":        form.Bio,
		"url":        form.URL,
		"image":      imageURL,
		"role":       string(domain.RoleInstructor),
	})
	if err != nil {
		s.removeHeadshot(ctx, key)
		return resultFromError(err)
	}

	if len(user.Identities) == 0 {
		s.removeHeadshot(ctx, key)
		return domain.Failure(http.StatusConflict, "User already exists")
	}

	slog.Info("instructor registered", "id", user.ID, "image", imageURL)
	return domain.Success(user)
}

// InstructorLogIn authenticates an instructor and provisions the
// instructors-table row on first log-in.
func (s *AccountService) InstructorLogIn(ctx context.Context, form domain.Login) *domain.Result {
	user, err := s.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		return resultFromError(err)
	}

	// No linked identities means the account was never confirmed.
	if len(user.Identities) == 0 {
		return domain.Failure(http.StatusNotFound, "User not found")
	}

	if user.Role() != domain.RoleInstructor {
		return domain.Failure(http.StatusBadRequest, "You are not an instructor")
	}

	profile := &domain.InstructorProfile{
		ID:         user.ID,
		Email:      form.Email,
		Name:       user.Metadata.String("name"),
		Interest:   user.Metadata.String("interest"),
		Occupation: user.Metadata.String("occupation"),
		Bio:        user.Metadata.String("bio"),
		URL:        user.Metadata.String("url"),
		Image:      user.Metadata.String("image"),
		Followers:  []string{},
	}
	if err := s.profiles.InsertInstructorIfAbsent(ctx, profile); err != nil {
		return domain.Failure(http.StatusInternalServerError, err.Error())
	}

	return domain.Success(user)
}

// removeHeadshot deletes an uploaded image that no identity ended up
// referencing. Best-effort: a failure leaves an orphan in the bucket,
// which is harmless, so it is only logged.
func (s *AccountService) removeHeadshot(ctx context.Context, key string) {
	if err := s.storage.Remove(context.WithoutCancel(ctx), s.headshotBucket, key); err != nil {
		slog.Warn("orphaned headshot left in storage", "bucket", s.headshotBucket, "key", key, "error", err)
	}
}

// resultFromError shapes an adapter error into a failure result. Provider
// failures keep the status and message the platform reported; anything
// else is a downstream 500.
func resultFromError(err error) *domain.Result {
	var perr *port.ProviderError
	if errors.As(err, &perr) {
		return domain.Failure(perr.Status, perr.Message)
	}
	return domain.Failure(http.StatusInternalServerError, err.Error())
}
