package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit logs
// @Description List audit logs, optionally filtered by module and record id
// @Tags audit
// @Produce json
// @Param module query string false "Module name"
// @Param record_id query string false "Record ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {array} models.AuditLog
// @Router /api/audit [get]
func (c *AuditController) ListLogs(ctx *fiber.Ctx) error {
	filters := map[string]interface{}{}
	if module := ctx.Query("module"); module != "" {
		filters["module"] = module
	}
	if recordID := ctx.Query("record_id"); recordID != "" {
		filters["record_id"] = recordID
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	logs, err := c.Service.ListLogs(ctx.UserContext(), filters, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(logs)
}
