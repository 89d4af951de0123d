package workorder

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkOrderApi struct {
	controller *WorkOrderController
	config     *config.Config
}

func NewWorkOrderApi(controller *WorkOrderController, config *config.Config) *WorkOrderApi {
	return &WorkOrderApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkOrderApi) Setup(app *fiber.App) {
	orders := app.Group("/api/work-orders", middleware.AuthMiddleware(h.config.SkipAuth))

	orders.Post("/", h.controller.CreateWorkOrder)
	orders.Get("/", h.controller.ListWorkOrders)
	orders.Get("/:id", h.controller.GetWorkOrder)
	orders.Put("/:id", h.controller.UpdateWorkOrder)
	orders.Delete("/:id", middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole), h.controller.DeleteWorkOrder)
}
