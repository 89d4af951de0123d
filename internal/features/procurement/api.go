package procurement

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProcurementApi struct {
	controller *ProcurementController
	config     *config.Config
}

func NewProcurementApi(controller *ProcurementController, config *config.Config) *ProcurementApi {
	return &ProcurementApi{
		controller: controller,
		config:     config,
	}
}

func (h *ProcurementApi) Setup(app *fiber.App) {
	procurements := app.Group("/api/procurements", middleware.AuthMiddleware(h.config.SkipAuth))

	procurements.Post("/", h.controller.CreateProcurement)
	procurements.Get("/", h.controller.ListProcurements)
	procurements.Get("/:id", h.controller.GetProcurement)
	procurements.Put("/:id", h.controller.UpdateProcurement)
	procurements.Delete("/:id", middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole), h.controller.DeleteProcurement)

	vendors := app.Group("/api/vendors", middleware.AuthMiddleware(h.config.SkipAuth))
	vendors.Get("/", h.controller.ListVendors)
}
