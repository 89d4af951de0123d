package reminder

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReminderApi struct {
	controller *ReminderController
	config     *config.Config
}

func NewReminderApi(controller *ReminderController, config *config.Config) *ReminderApi {
	return &ReminderApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReminderApi) Setup(app *fiber.App) {
	group := app.Group("/api/reminders",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole))

	group.Post("/run", h.controller.RunSweep)
}
