package approval

import (
	"go-procure/internal/config"
	"go-procure/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller *ApprovalController
	config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, config *config.Config) *ApprovalApi {
	return &ApprovalApi{
		controller: controller,
		config:     config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	approvals := app.Group("/api/approvals", middleware.AuthMiddleware(h.config.SkipAuth))

	approvals.Get("/documents/:id/gate", h.controller.CheckGate)
	approvals.Get("/documents/:id/ledger", h.controller.ListLedger)
	approvals.Get("/documents/:id/decisions/last", h.controller.LastDecision)
	approvals.Post("/documents/:id/approve", h.controller.Approve)
	approvals.Post("/documents/:id/reject", h.controller.Reject)

	approvals.Get("/entries/:id/gate", h.controller.ResolveEntry)
	approvals.Get("/qr/:token", h.controller.ResolveQr)
}
