package reminder

import (
	"github.com/gofiber/fiber/v2"
)

type ReminderController struct {
	Service ReminderService
}

func NewReminderController(service ReminderService) *ReminderController {
	return &ReminderController{Service: service}
}

// RunSweep godoc
// @Summary Run the overdue-approval reminder sweep now
// @Tags reminders
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/reminders/run [post]
func (c *ReminderController) RunSweep(ctx *fiber.Ctx) error {
	sent, err := c.Service.Sweep(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"reminders_sent": sent})
}
