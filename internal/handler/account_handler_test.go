package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
	"github.com/arturoeanton/go-course-accounts/internal/port"
	"github.com/arturoeanton/go-course-accounts/internal/service"
)

// --- fakes ---

type stubProvider struct {
	signUpUser *domain.Identity
	signUpErr  error
	signInUser *domain.Identity
	signInErr  error

	lastMetadata domain.Metadata
}

func (f *stubProvider) SignUp(_ context.Context, _, _ string, metadata domain.Metadata) (*domain.Identity, error) {
	f.lastMetadata = metadata
	return f.signUpUser, f.signUpErr
}

func (f *stubProvider) SignIn(_ context.Context, _, _ string) (*domain.Identity, error) {
	return f.signInUser, f.signInErr
}

type stubStorage struct {
	data []byte
}

func (f *stubStorage) Upload(_ context.Context, bucket, key string, body io.Reader, _ string) (string, error) {
	f.data, _ = io.ReadAll(body)
	return bucket + "/" + key, nil
}

func (f *stubStorage) Remove(context.Context, string, string) error { return nil }

type stubProfiles struct {
	students    map[string]*domain.StudentProfile
	instructors map[string]*domain.InstructorProfile
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{
		students:    map[string]*domain.StudentProfile{},
		instructors: map[string]*domain.InstructorProfile{},
	}
}

func (f *stubProfiles) InsertStudentIfAbsent(_ context.Context, p *domain.StudentProfile) error {
	if _, ok := f.students[p.ID]; !ok {
		f.students[p.ID] = p
	}
	return nil
}

func (f *stubProfiles) InsertInstructorIfAbsent(_ context.Context, p *domain.InstructorProfile) error {
	if _, ok := f.instructors[p.ID]; !ok {
		f.instructors[p.ID] = p
	}
	return nil
}

func (f *stubProfiles) GetStudentByEmail(_ context.Context, email string) (*domain.StudentProfile, error) {
	for _, p := range f.students {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, port.ErrProfileNotFound
}

func (f *stubProfiles) GetInstructorByEmail(_ context.Context, email string) (*domain.InstructorProfile, error) {
	for _, p := range f.instructors {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, port.ErrProfileNotFound
}

type stubNotifier struct {
	signals chan string
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{signals: make(chan string, 8)}
}

func (f *stubNotifier) Revalidate(_ context.Context, path string) error {
	f.signals <- path
	return nil
}

type envelope struct {
	Error  *string          `json:"error"`
	Status int              `json:"status"`
	User   *domain.Identity `json:"user"`
}

func newTestApp(provider *stubProvider, storage *stubStorage, profiles *stubProfiles, notifier *stubNotifier) *fiber.App {
	svc := service.NewAccountService(provider, storage, profiles, "headshots", "https://cdn.example.com/")
	app := fiber.New()
	NewAccountHandler(svc, notifier).Register(app)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

// --- tests ---

func TestStudentSignUpRoute(t *testing.T) {
	provider := &stubProvider{
		signUpUser: &domain.Identity{
			ID:         "u-1",
			Email:      "ada@example.com",
			Metadata:   domain.Metadata{"name": "Ada", "interest": "math", "role": "student"},
			Identities: []domain.LinkedIdentity{{ID: "u-1", Provider: "email"}},
		},
	}
	notifier := newStubNotifier()
	app := newTestApp(provider, &stubStorage{}, newStubProfiles(), notifier)

	resp, env := postForm(t, app, "/api/v1/students/signup", url.Values{
		"email":    {"ada@example.com"},
		"password": {"secret123"},
		"interest": {"math"},
		"name":     {"Ada"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, env.Error)
	assert.Equal(t, http.StatusOK, env.Status)
	require.NotNil(t, env.User)
	assert.Equal(t, "u-1", env.User.ID)

	// A successful operation signals the frontend cache.
	select {
	case path := <-notifier.signals:
		assert.Equal(t, "/", path)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a revalidation signal")
	}
}

func TestStudentSignUpRoute_ProviderFailure(t *testing.T) {
	provider := &stubProvider{
		signUpErr: &port.ProviderError{Status: 422, Message: "Unable to validate email address: invalid format"},
	}
	notifier := newStubNotifier()
	app := newTestApp(provider, &stubStorage{}, newStubProfiles(), notifier)

	resp, env := postForm(t, app, "/api/v1/students/signup", url.Values{
		"email": {"not-an-email"}, "password": {"secret123"},
	})

	assert.Equal(t, 422, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Unable to validate email address: invalid format", *env.Error)
	assert.Nil(t, env.User)
	assert.Empty(t, notifier.signals, "failures must not trigger revalidation")
}

func TestStudentLogInRoute_RoleMismatch(t *testing.T) {
	provider := &stubProvider{
		signInUser: &domain.Identity{
			ID:         "u-2",
			Metadata:   domain.Metadata{"role": "instructor", "image": "https://cdn/x"},
			Identities: []domain.LinkedIdentity{{ID: "u-2", Provider: "email"}},
		},
	}
	profiles := newStubProfiles()
	app := newTestApp(provider, &stubStorage{}, profiles, newStubNotifier())

	resp, env := postForm(t, app, "/api/v1/students/login", url.Values{
		"email": {"bob@example.com"}, "password": {"secret123"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "You are not a student", *env.Error)
	assert.Empty(t, profiles.students)
}

func TestStudentLogInRoute_ProvisionsProfile(t *testing.T) {
	provider := &stubProvider{
		signInUser: &domain.Identity{
			ID:         "u-1",
			Email:      "ada@example.com",
			Metadata:   domain.Metadata{"name": "Ada", "interest": "math", "role": "student"},
			Identities: []domain.LinkedIdentity{{ID: "u-1", Provider: "email"}},
		},
	}
	profiles := newStubProfiles()
	app := newTestApp(provider, &stubStorage{}, profiles, newStubNotifier())

	resp, env := postForm(t, app, "/api/v1/students/login", url.Values{
		"email": {"ada@example.com"}, "password": {"secret123"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, env.Error)
	require.Contains(t, profiles.students, "u-1")
	assert.Empty(t, profiles.students["u-1"].FollowingList)
}

func TestInstructorSignUpRoute_Multipart(t *testing.T) {
	provider := &stubProvider{
		signUpUser: &domain.Identity{
			ID:         "u-9",
			Email:      "grace@example.com",
			Identities: []domain.LinkedIdentity{{ID: "u-9", Provider: "email"}},
		},
	}
	storage := &stubStorage{}
	app := newTestApp(provider, storage, newStubProfiles(), newStubNotifier())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"email":      "grace@example.com",
		"password":   "secret123",
		"interest":   "systems",
		"name":       "Grace",
		"occupation": "Engineer",
		"bio":        "Compiler pioneer",
		"url":        "https://grace.dev",
	} {
		require.NoError(t, w.WriteField(field, value))
	}
	fw, err := w.CreateFormFile("image", "headshot.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/instructors/signup", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, env.Error)
	assert.Equal(t, []byte("png-bytes"), storage.data)

	imageURL, _ := provider.lastMetadata["image"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "https://cdn.example.com/headshots/"), "image URL %q", imageURL)
	assert.True(t, strings.HasSuffix(imageURL, "/image"))
}

func TestInstructorSignUpRoute_MissingImage(t *testing.T) {
	app := newTestApp(&stubProvider{}, &stubStorage{}, newStubProfiles(), newStubNotifier())

	resp, env := postForm(t, app, "/api/v1/instructors/signup", url.Values{
		"email": {"grace@example.com"}, "password": {"secret123"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "missing profile image", *env.Error)
}

func TestInstructorLogInRoute_NotFound(t *testing.T) {
	provider := &stubProvider{
		signInUser: &domain.Identity{ID: "u-9", Metadata: domain.Metadata{"role": "instructor"}},
	}
	app := newTestApp(provider, &stubStorage{}, newStubProfiles(), newStubNotifier())

	resp, env := postForm(t, app, "/api/v1/instructors/login", url.Values{
		"email": {"grace@example.com"}, "password": {"secret123"},
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "User not found", *env.Error)
}
