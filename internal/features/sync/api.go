package sync

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) *SyncApi {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

func (h *SyncApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole))

	group.Post("/vendors", h.controller.RunVendorSync)
	group.Get("/runs", h.controller.ListRuns)
}
