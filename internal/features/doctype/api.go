package doctype

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentTypeApi struct {
	controller *DocumentTypeController
	config     *config.Config
}

func NewDocumentTypeApi(controller *DocumentTypeController, config *config.Config) *DocumentTypeApi {
	return &DocumentTypeApi{
		controller: controller,
		config:     config,
	}
}

func (h *DocumentTypeApi) Setup(app *fiber.App) {
	types := app.Group("/api/document-types", middleware.AuthMiddleware(h.config.SkipAuth))

	types.Get("/", h.controller.List)
	types.Get("/:id", h.controller.Get)

	admin := types.Group("", middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole))
	admin.Post("/", h.controller.Create)
	admin.Put("/:id", h.controller.Update)
	admin.Delete("/:id", h.controller.Delete)
}
