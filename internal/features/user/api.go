package user

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/", h.controller.ListUsers)
	users.Get("/:id", h.controller.GetUser)

	admin := users.Group("", middleware.RequireRole(h.config.SkipAuth, h.config.AdminRole))
	admin.Post("/", h.controller.CreateUser)
	admin.Put("/:id/roles", h.controller.UpdateRoles)
}
