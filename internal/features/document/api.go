package document

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller *DocumentController
	config     *config.Config
}

func NewDocumentApi(controller *DocumentController, config *config.Config) *DocumentApi {
	return &DocumentApi{
		controller: controller,
		config:     config,
	}
}

func (h *DocumentApi) Setup(app *fiber.App) {
	documents := app.Group("/api/documents", middleware.AuthMiddleware(h.config.SkipAuth))

	documents.Post("/", h.controller.RegisterDocument)
	documents.Get("/", h.controller.ListDocuments)
	documents.Get("/:id", h.controller.GetDocument)
	documents.Post("/:id/replace", h.controller.ReplaceDocument)

	app.Static(h.config.FSURL, h.config.FSPath)
}
