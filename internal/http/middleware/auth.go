package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"arcapi/internal/model"
)

// UserLocalKey is the Fiber Locals key carrying the authenticated user.
const UserLocalKey = "auth_user"

// Authenticator resolves a bearer token to its user. Satisfied by the
// user service.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth returns middleware that requires a valid "Authorization: Bearer"
// session token and stores the resolved user in Locals.
func Auth(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		user, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session")
		}
		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// DenialRecorder writes authorization denials to the audit log.
// Satisfied by the log service; may be nil.
type DenialRecorder interface {
	Error(ctx context.Context, userLogin, category, message string, data map[string]any)
}

// RequireAdmin returns middleware that rejects non-admin users. It must
// run after Auth.
func RequireAdmin(audit DenialRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if user.Role != model.RoleAdmin {
			if audit != nil {
				audit.Error(c.UserContext(), user.Login, "auth", "admin route denied",
					map[string]any{"path": c.Path()})
			}
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

// UserFromCtx extracts the user previously stored by Auth.
func UserFromCtx(c *fiber.Ctx) *model.User {
	if v := c.Locals(UserLocalKey); v != nil {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
