package handler

import (
	"github.com/gofiber/fiber/v2"

	"arcapi/internal/http/middleware"
	"arcapi/internal/search"
	"arcapi/internal/service"
)

func createNote(notes service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.NoteInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		note, err := notes.Create(c.UserContext(), middleware.UserFromCtx(c), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(note)
	}
}

func getNote(notes service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		note, err := notes.Get(c.UserContext(), middleware.UserFromCtx(c), id)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(note)
	}
}

func updateNote(notes service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		var req service.NoteInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		note, err := notes.Update(c.UserContext(), middleware.UserFromCtx(c), id, req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(note)
	}
}

func deleteNote(notes service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		if err := notes.Delete(c.UserContext(), middleware.UserFromCtx(c), id); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func searchNotes(notes service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req search.Request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		page, err := notes.Search(c.UserContext(), middleware.UserFromCtx(c), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(page)
	}
}
