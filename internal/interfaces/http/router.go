package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docvault-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	GroupUC    *usecase.GroupUseCase
	DocumentUC *usecase.DocumentUseCase
	SyncUC     *usecase.SyncUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas de datos exigen un
// Bearer Token; los comandos y las consultas pasan además por su compuerta
// de autorización.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	commands := api.Group("/", RequireCommand())
	queries := api.Group("/", RequireQuery())

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.SyncUC)
	commands.Post("/categories", categoryHandler.Save)
	queries.Get("/categories", categoryHandler.List)

	// Grupos
	groupHandler := NewGroupHandler(deps.GroupUC, deps.SyncUC)
	commands.Post("/groups", groupHandler.Save)
	commands.Post("/groups/:id/delete", groupHandler.Delete)
	commands.Post("/groups/:id/restore", groupHandler.Restore)
	queries.Get("/groups", groupHandler.List)
	queries.Post("/groups/keys", groupHandler.Keys)

	// Documentos
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.SyncUC)
	commands.Post("/documents", documentHandler.Save)
	commands.Post("/documents/:id/delete", documentHandler.Delete)
	commands.Post("/documents/:id/restore", documentHandler.Restore)
	queries.Get("/groups/:id/documents", documentHandler.ListByGroup)
}
