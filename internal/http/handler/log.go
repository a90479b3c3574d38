package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"arcapi/internal/search"
	"arcapi/internal/service"
)

func searchLogs(logs service.LogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req search.Request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		page, err := logs.Search(c.UserContext(), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(page)
	}
}

func purgeLogs(logs service.LogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days, err := strconv.Atoi(c.Params("days"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid days parameter")
		}
		removed, err := logs.PurgeOlderThan(c.UserContext(), days)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(fiber.Map{"removed": removed})
	}
}
