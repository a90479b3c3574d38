package handler

import (
	"github.com/gofiber/fiber/v2"

	"arcapi/internal/http/middleware"
	"arcapi/internal/search"
	"arcapi/internal/service"
)

func createDocument(docs service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ArchiveDocumentInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		doc, err := docs.Create(c.UserContext(), middleware.UserFromCtx(c), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func getDocument(docs service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		doc, err := docs.Get(c.UserContext(), middleware.UserFromCtx(c), id)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(doc)
	}
}

func updateDocument(docs service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		var req service.ArchiveDocumentInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		doc, err := docs.Update(c.UserContext(), middleware.UserFromCtx(c), id, req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(doc)
	}
}

func deleteDocument(docs service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		if err := docs.Delete(c.UserContext(), middleware.UserFromCtx(c), id); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func searchDocuments(docs service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req search.Request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		page, err := docs.Search(c.UserContext(), middleware.UserFromCtx(c), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(page)
	}
}
