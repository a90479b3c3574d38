package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"arcapi/internal/model"
	"arcapi/internal/search"
	"arcapi/internal/service"
)

type componentRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IndexType   model.IndexType `json:"index_type"`
}

func createComponent(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req componentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		comp, err := sigs.CreateComponent(c.UserContext(), req.Name, req.Description, req.IndexType)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(comp)
	}
}

func listComponents(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := sigs.ListComponents(c.UserContext())
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(all)
	}
}

func getComponent(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		comp, err := sigs.GetComponent(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(comp)
	}
}

func updateComponent(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		var req componentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		comp, err := sigs.UpdateComponent(c.UserContext(), id, req.Name, req.Description, req.IndexType)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(comp)
	}
}

func deleteComponent(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		if err := sigs.DeleteComponent(c.UserContext(), id); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func reindexComponent(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		comp, err := sigs.Reindex(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(comp)
	}
}

func listComponentElements(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		// Reuse the search path so parent ids and ordering match list views.
		page, err := sigs.SearchElements(c.UserContext(), search.Request{
			Query: []search.QueryElement{
				{Field: "signatureComponentId", Condition: search.CondEq, Value: float64(id)},
			},
			PageSize: search.MaxPageSize,
		})
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(page.Data)
	}
}

func createElement(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ElementInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		el, err := sigs.CreateElement(c.UserContext(), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(el)
	}
}

func getElement(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		var populate []string
		if q := c.Query("populate"); q != "" {
			populate = strings.Split(q, ",")
		}
		el, err := sigs.GetElement(c.UserContext(), id, populate)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(el)
	}
}

func updateElement(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		var req service.ElementInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		el, err := sigs.UpdateElement(c.UserContext(), id, req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(el)
	}
}

func deleteElement(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return invalidID(c, "id")
		}
		if err := sigs.DeleteElement(c.UserContext(), id); err != nil {
			return writeAppError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func searchElements(sigs service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req search.Request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BODY_PARSE", "malformed request body")
		}
		page, err := sigs.SearchElements(c.UserContext(), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(page)
	}
}
