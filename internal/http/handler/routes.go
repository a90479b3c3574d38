package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"arcapi/internal/http/middleware"
	"arcapi/internal/service"
)

// Services bundles the use-case layer for route registration.
type Services struct {
	Users      service.UserService
	Tags       service.TagService
	Notes      service.NoteService
	Signatures service.SignatureService
	Archive    service.ArchiveService
	Configs    service.ConfigService
	Logs       service.LogService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: parse, call the service, shape JSON.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", docsPage)

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")

	// Public: credentials in, session out.
	api.Post("/user/login", login(svc.Users))
	api.Post("/user/create", register(svc.Users))

	api.Use(middleware.Auth(svc.Users))
	admin := middleware.RequireAdmin(svc.Logs)

	api.Post("/user/logout", logout(svc.Users))
	api.Get("/users/all", admin, listUsers(svc.Users))
	api.Get("/user/by-login/:login", admin, getUserByLogin(svc.Users))
	api.Patch("/user/by-login/:login", admin, updateUserRole(svc.Users))

	api.Put("/tag", createTag(svc.Tags))
	api.Get("/tags", listTags(svc.Tags))
	api.Get("/tag/id/:id", getTag(svc.Tags))
	api.Patch("/tag/id/:id", updateTag(svc.Tags))
	api.Delete("/tag/id/:id", deleteTag(svc.Tags))

	api.Put("/note", createNote(svc.Notes))
	api.Get("/note/id/:id", getNote(svc.Notes))
	api.Patch("/note/id/:id", updateNote(svc.Notes))
	api.Delete("/note/id/:id", deleteNote(svc.Notes))
	api.Post("/notes/search", searchNotes(svc.Notes))

	api.Put("/signature/component", admin, createComponent(svc.Signatures))
	api.Get("/signature/components", listComponents(svc.Signatures))
	api.Get("/signature/component/:id", getComponent(svc.Signatures))
	api.Patch("/signature/component/:id", admin, updateComponent(svc.Signatures))
	api.Delete("/signature/component/:id", admin, deleteComponent(svc.Signatures))
	api.Post("/signature/components/id/:id/reindex", admin, reindexComponent(svc.Signatures))
	api.Get("/signature/components/id/:id/elements/all", listComponentElements(svc.Signatures))

	api.Put("/signature/element", admin, createElement(svc.Signatures))
	api.Get("/signature/element/:id", getElement(svc.Signatures))
	api.Patch("/signature/element/:id", admin, updateElement(svc.Signatures))
	api.Delete("/signature/element/:id", admin, deleteElement(svc.Signatures))
	api.Post("/signature/elements/search", searchElements(svc.Signatures))

	api.Put("/archive/document", createDocument(svc.Archive))
	api.Get("/archive/document/id/:id", getDocument(svc.Archive))
	api.Patch("/archive/document/id/:id", updateDocument(svc.Archive))
	api.Delete("/archive/document/id/:id", deleteDocument(svc.Archive))
	api.Post("/archive/documents/search", searchDocuments(svc.Archive))

	api.Get("/configs", listConfigs(svc.Configs))
	api.Get("/configs/:key", getConfig(svc.Configs))
	api.Put("/configs/:key", admin, setConfig(svc.Configs))

	api.Post("/logs/search", admin, searchLogs(svc.Logs))
	api.Delete("/logs/older-than/:days", admin, purgeLogs(svc.Logs))
}

// docsPage serves a static Swagger UI shell pointing at the bundled spec.
func docsPage(c *fiber.Ctx) error {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
	return c.Type("html").SendString(html)
}
