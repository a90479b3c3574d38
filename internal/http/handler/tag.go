package handler

import (
	"github.com/gofiber/fiber/v2"

	"arcapi/internal/service"
)

type tagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func createTag(tags service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tagRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		tag, err := tags.Create(c.UserContext(), req.Name, req.Description)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tag)
	}
}

func listTags(tags service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := tags.List(c.UserContext())
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(all)
	}
}

func getTag(tags service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		tag, err := tags.Get(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(tag)
	}
}

func updateTag(tags service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		var req tagRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		tag, err := tags.Update(c.UserContext(), id, req.Name, req.Description)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(tag)
	}
}

func deleteTag(tags service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		if err := tags.Delete(c.UserContext(), id); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
