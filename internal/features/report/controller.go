package report

import (
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

// ExportApprovalRegister godoc
// @Summary Download the approval register as an Excel workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind query string false "Filter by parent kind (work_order or procurement)"
// @Param from query string false "Decision window start (RFC 3339)"
// @Param to query string false "Decision window end (RFC 3339)"
// @Success 200 {file} binary
// @Router /api/reports/approval-register [get]
func (c *ReportController) ExportApprovalRegister(ctx *fiber.Ctx) error {
	filter := RegisterFilter{
		Kind: common_models.DocumentKind(ctx.Query("kind")),
	}
	if from := ctx.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from timestamp"})
		}
		filter.From = &t
	}
	if to := ctx.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to timestamp"})
		}
		filter.To = &t
	}

	data, filename, err := c.Service.ExportApprovalRegister(ctx.UserContext(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Send(data)
}
