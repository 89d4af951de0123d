package notification

import (
	"go-procure/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

// ListNotifications godoc
// @Summary List notifications for the current user
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Success 200 {array} Notification
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	notifications, err := c.Service.ListByUser(ctx.UserContext(), claims.UserID, ctx.QueryBool("unread"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(notifications)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string "Marked"
// @Router /api/notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.Service.MarkRead(ctx.UserContext(), ctx.Params("id"), claims.UserID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Notification marked read"})
}

// HandleWebSocket keeps the connection registered for push until the client
// disconnects. Incoming messages are ignored.
func (c *NotificationController) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	if userID == "" {
		_ = conn.Close()
		return
	}

	c.Service.Register(userID, conn)
	defer func() {
		c.Service.Unregister(userID, conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
