package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
	"github.com/arturoeanton/go-course-accounts/internal/middleware"
	"github.com/arturoeanton/go-course-accounts/internal/port"
)

// ProfileHandler serves the authenticated caller's own profile row.
type ProfileHandler struct {
	profiles port.ProfileStore
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles port.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Register sets up the profile routes on an authenticated router group.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/me", h.Me)
}

// Me returns the caller's profile row for their role. A 404 here means
// the identity exists but has not logged in yet, so no row was
// provisioned.
func (h *ProfileHandler) Me(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing authorization",
		})
	}

	var (
		profile any
		err     error
	)
	switch uc.Role {
	case domain.RoleInstructor:
		profile, err = h.profiles.GetInstructorByEmail(c.Context(), uc.Email)
	default:
		profile, err = h.profiles.GetStudentByEmail(c.Context(), uc.Email)
	}

	if errors.Is(err, port.ErrProfileNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "profile not provisioned",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"role":    uc.Role,
		"profile": profile,
	})
}
