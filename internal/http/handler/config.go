package handler

import (
	"github.com/gofiber/fiber/v2"

	"arcapi/internal/service"
)

func listConfigs(configs service.ConfigService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := configs.List(c.UserContext())
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(all)
	}
}

func getConfig(configs service.ConfigService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, err := configs.Get(c.UserContext(), c.Params("key"))
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(entry)
	}
}

type configRequest struct {
	Value string `json:"value"`
}

func setConfig(configs service.ConfigService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req configRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		entry, err := configs.Set(c.UserContext(), c.Params("key"), req.Value)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(entry)
	}
}
