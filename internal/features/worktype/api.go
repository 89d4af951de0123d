package worktype

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkTypeApi struct {
	controller *WorkTypeController
	config     *config.Config
}

func NewWorkTypeApi(controller *WorkTypeController, config *config.Config) *WorkTypeApi {
	return &WorkTypeApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkTypeApi) Setup(app *fiber.App) {
	types := app.Group("/api/work-types", middleware.AuthMiddleware(h.config.SkipAuth))

	types.Get("/", h.controller.ListWorkTypes)
	types.Get("/:id", h.controller.GetWorkType)
	types.Get("/:id/requirements", h.controller.ListRequirements)

	admin := types.Group("", middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole))
	admin.Post("/", h.controller.CreateWorkType)
	admin.Put("/:id", h.controller.UpdateWorkType)
	admin.Delete("/:id", h.controller.DeleteWorkType)
	admin.Post("/:id/requirements", h.controller.CreateRequirement)
	admin.Put("/:id/requirements/:reqId", h.controller.UpdateRequirement)
	admin.Delete("/:id/requirements/:reqId", h.controller.DeleteRequirement)
}
