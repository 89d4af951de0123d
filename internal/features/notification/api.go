package notification

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"
	"go-procure/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) *NotificationApi {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))
	notifications.Get("/", h.controller.ListNotifications)
	notifications.Post("/:id/read", h.controller.MarkRead)

	app.Use("/api/ws", middleware.AuthMiddleware(h.config.SkipAuth), func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
			ctx.Locals("user_id", claims.UserID)
		}
		return ctx.Next()
	})
	app.Get("/api/ws", websocket.New(h.controller.HandleWebSocket))
}
