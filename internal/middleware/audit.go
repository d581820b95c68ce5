package middleware

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error
}

// AuditMiddleware records every request, labelling the account operations
// so sign-up and log-in attempts can be traced per email domain policy.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		userID := "anonymous"
		if uc := GetUserContext(c); uc != nil {
			userID = uc.UserID
		}

		statusCode := c.Response().StatusCode()
		details := map[string]any{
			"method":      method,
			"path":        path,
			"status":      statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)

		// Write asynchronously — all values are captured, safe to use in a goroutine
		go func() {
			if writeErr := writer.WriteAudit(
				userID,
				auditAction(path),
				"accounts",
				path,
				string(detailsJSON),
				ip,
				userAgent,
			); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}

// auditAction labels the account routes; everything else is a generic
// http_request.
func auditAction(path string) string {
	switch {
	case strings.HasSuffix(path, "/students/signup"):
		return "student_signup"
	case strings.HasSuffix(path, "/students/login"):
		return "student_login"
	case strings.HasSuffix(path, "/instructors/signup"):
		return "instructor_signup"
	case strings.HasSuffix(path, "/instructors/login"):
		return "instructor_login"
	default:
		return "http_request"
	}
}
