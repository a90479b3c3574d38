package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"arcapi/internal/apperr"
	"arcapi/internal/http/middleware"
	"arcapi/internal/model"
	"arcapi/internal/service"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	User    *model.User    `json:"user"`
	Session *model.Session `json:"session"`
}

func login(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		user, session, err := users.Login(c.UserContext(), req.Login, req.Password)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindAuthorization {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
			}
			return writeAppError(c, err)
		}
		return c.JSON(loginResponse{User: user, Session: session})
	}
}

func logout(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if err := users.Logout(c.UserContext(), token); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// register creates a regular account. Role elevation is a separate
// admin-only call.
func register(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		user, err := users.Create(c.UserContext(), req.Login, req.Password, model.RoleRegular)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

func listUsers(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := users.List(c.UserContext())
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(all)
	}
}

func getUserByLogin(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := users.FindByLogin(c.UserContext(), c.Params("login"))
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(user)
	}
}

type roleUpdateRequest struct {
	Role model.Role `json:"role"`
}

func updateUserRole(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req roleUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		actor := middleware.UserFromCtx(c)
		user, err := users.UpdateRole(c.UserContext(), actor, c.Params("login"), req.Role)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(user)
	}
}
