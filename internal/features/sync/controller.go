package sync

import (
	"go-procure/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
}

func NewSyncController(service SyncService) *SyncController {
	return &SyncController{Service: service}
}

// RunVendorSync godoc
// @Summary Import vendor master data from the external ERP
// @Tags sync
// @Produce json
// @Success 200 {object} SyncRun
// @Router /api/sync/vendors [post]
func (c *SyncController) RunVendorSync(ctx *fiber.Ctx) error {
	triggeredBy := ""
	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		triggeredBy = claims.UserID
	}

	run, err := c.Service.RunVendorSync(ctx.UserContext(), triggeredBy)
	if err != nil {
		status := fiber.StatusInternalServerError
		if run != nil {
			// The failed run record still tells the caller what happened.
			return ctx.Status(status).JSON(run)
		}
		return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(run)
}

// ListRuns godoc
// @Summary List past vendor sync runs
// @Tags sync
// @Produce json
// @Param limit query int false "Max runs to return"
// @Success 200 {array} SyncRun
// @Router /api/sync/runs [get]
func (c *SyncController) ListRuns(ctx *fiber.Ctx) error {
	runs, err := c.Service.ListRuns(ctx.UserContext(), int64(ctx.QueryInt("limit")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(runs)
}
