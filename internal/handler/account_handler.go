package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
	"github.com/arturoeanton/go-course-accounts/internal/port"
	"github.com/arturoeanton/go-course-accounts/internal/service"
)

// AccountHandler exposes the sign-up and log-in endpoints. Each handler
// extracts form fields, delegates to the account service, and writes the
// uniform {error, status, user} envelope with a matching HTTP status.
type AccountHandler struct {
	accounts *service.AccountService
	notifier port.Revalidator
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts *service.AccountService, notifier port.Revalidator) *AccountHandler {
	return &AccountHandler{accounts: accounts, notifier: notifier}
}

// Register sets up the account routes.
func (h *AccountHandler) Register(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Post("/students/signup", h.StudentSignUp)
	api.Post("/students/login", h.StudentLogIn)
	api.Post("/instructors/signup", h.InstructorSignUp)
	api.Post("/instructors/login", h.InstructorLogIn)
}

// StudentSignUp handles POST /api/v1/students/signup.
func (h *AccountHandler) StudentSignUp(c fiber.Ctx) error {
	form := domain.StudentRegistration{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Interest: c.FormValue("interest"),
		Name:     c.FormValue("name"),
	}
	return h.respond(c, h.accounts.StudentSignUp(c.Context(), form))
}

// StudentLogIn handles POST /api/v1/students/login.
func (h *AccountHandler) StudentLogIn(c fiber.Ctx) error {
	form := domain.Login{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	return h.respond(c, h.accounts.StudentLogIn(c.Context(), form))
}

// InstructorSignUp handles POST /api/v1/instructors/signup (multipart,
// with the profile image in the "image" file field).
func (h *AccountHandler) InstructorSignUp(c fiber.Ctx) error {
	form := domain.InstructorRegistration{
		Email:      c.FormValue("email"),
		Password:   c.FormValue("password"),
		Interest:   c.FormValue("interest"),
		Name:       c.FormValue("name"),
		Occupation: c.FormValue("occupation"),
		Bio:        c.FormValue("bio"),
		URL:        c.FormValue("url"),
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return h.respond(c, domain.Failure(fiber.StatusBadRequest, "missing profile image"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return h.respond(c, domain.Failure(fiber.StatusBadRequest, "unreadable profile image"))
	}
	defer file.Close()

	form.Image, err = io.ReadAll(file)
	if err != nil {
		return h.respond(c, domain.Failure(fiber.StatusBadRequest, "unreadable profile image"))
	}
	form.ImageContentType = fileHeader.Header.Get("Content-Type")

	return h.respond(c, h.accounts.InstructorSignUp(c.Context(), form))
}

// InstructorLogIn handles POST /api/v1/instructors/login.
func (h *AccountHandler) InstructorLogIn(c fiber.Ctx) error {
	form := domain.Login{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	return h.respond(c, h.accounts.InstructorLogIn(c.Context(), form))
}

// respond writes the result envelope and, on success, signals the
// presentation layer to rebuild its cached layout.
func (h *AccountHandler) respond(c fiber.Ctx, res *domain.Result) error {
	if res.OK() {
		ctx := context.WithoutCancel(c.Context())
		go func() {
			if err := h.notifier.Revalidate(ctx, "/"); err != nil {
				slog.Warn("cache revalidation failed", "error", err)
			}
		}()
	}
	return c.Status(res.Status).JSON(res)
}
