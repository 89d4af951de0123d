package approval

import (
	"errors"

	"go-procure/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Service ApprovalService
	Gate    GateEvaluator
	Qr      QrResolver
}

func NewApprovalController(service ApprovalService, gate GateEvaluator, qr QrResolver) *ApprovalController {
	return &ApprovalController{
		Service: service,
		Gate:    gate,
		Qr:      qr,
	}
}

type decisionRequest struct {
	Note string `json:"note"`
}

// CheckGate godoc
// @Summary Check whether the current user may act on a document
// @Tags approvals
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Document not found"
// @Router /api/approvals/documents/{id}/gate [get]
func (c *ApprovalController) CheckGate(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	canAct, err := c.Gate.CanAct(ctx.UserContext(), actor, ctx.Params("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"can_act": canAct})
}

// Approve godoc
// @Summary Approve the next rung of a document's chain
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param decision body decisionRequest false "Optional note"
// @Success 200 {object} LedgerEntry
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Already decided or chain halted"
// @Router /api/approvals/documents/{id}/approve [post]
func (c *ApprovalController) Approve(ctx *fiber.Ctx) error {
	return c.decide(ctx, true)
}

// Reject godoc
// @Summary Reject a document, halting its chain
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param decision body decisionRequest false "Optional note"
// @Success 200 {object} LedgerEntry
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Already decided or chain halted"
// @Router /api/approvals/documents/{id}/reject [post]
func (c *ApprovalController) Reject(ctx *fiber.Ctx) error {
	return c.decide(ctx, false)
}

func (c *ApprovalController) decide(ctx *fiber.Ctx, approve bool) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req decisionRequest
	_ = ctx.BodyParser(&req)

	var entry *LedgerEntry
	if approve {
		entry, err = c.Service.Approve(ctx.UserContext(), actor, ctx.Params("id"), req.Note)
	} else {
		entry, err = c.Service.Reject(ctx.UserContext(), actor, ctx.Params("id"), req.Note)
	}
	if err != nil {
		return writeError(ctx, err)
	}
	if entry == nil {
		return ctx.JSON(fiber.Map{"message": "Decision recorded"})
	}
	return ctx.JSON(entry)
}

// ListLedger godoc
// @Summary List the approval ledger of a document
// @Tags approvals
// @Produce json
// @Param id path string true "Document ID"
// @Param approved query bool false "Only approved entries"
// @Success 200 {array} LedgerEntry
// @Router /api/approvals/documents/{id}/ledger [get]
func (c *ApprovalController) ListLedger(ctx *fiber.Ctx) error {
	var entries []LedgerEntry
	var err error
	if ctx.QueryBool("approved") {
		entries, err = c.Service.ListApprovedLedger(ctx.UserContext(), ctx.Params("id"))
	} else {
		entries, err = c.Service.ListLedger(ctx.UserContext(), ctx.Params("id"))
	}
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(entries)
}

// LastDecision godoc
// @Summary Get a user's most recent decision on a document
// @Tags approvals
// @Produce json
// @Param id path string true "Document ID"
// @Param user_id query string false "User ID, defaults to the current user"
// @Success 200 {object} LedgerEntry
// @Failure 404 {object} map[string]string "No decision by this user"
// @Router /api/approvals/documents/{id}/decisions/last [get]
func (c *ApprovalController) LastDecision(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	userID := ctx.Query("user_id")
	if userID == "" {
		userID = actor.UserID
	}

	entry, err := c.Service.LastDecisionByUser(ctx.UserContext(), ctx.Params("id"), userID)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(entry)
}

// ResolveQr godoc
// @Summary Resolve a scanned QR token to its waiting gate
// @Tags approvals
// @Produce json
// @Param token path string true "QR token"
// @Success 200 {object} GateInfo
// @Failure 404 {object} map[string]string "Unknown token"
// @Router /api/approvals/qr/{token} [get]
func (c *ApprovalController) ResolveQr(ctx *fiber.Ctx) error {
	info, err := c.Qr.ResolveGateByQr(ctx.UserContext(), ctx.Params("token"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(info)
}

// ResolveEntry godoc
// @Summary Resolve a ledger entry to its document's waiting gate
// @Tags approvals
// @Produce json
// @Param id path string true "Ledger entry ID"
// @Success 200 {object} GateInfo
// @Failure 404 {object} map[string]string "Unknown entry"
// @Router /api/approvals/entries/{id}/gate [get]
func (c *ApprovalController) ResolveEntry(ctx *fiber.Ctx) error {
	info, err := c.Qr.ResolveGateByLedgerEntry(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(info)
}

func actorFromCtx(ctx *fiber.Ctx) (Actor, error) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return Actor{}, errors.New("missing claims")
	}
	return Actor{UserID: claims.UserID, Roles: claims.Roles}, nil
}

func writeError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotAuthorized):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrChainAlreadyInstantiated),
		errors.Is(err, ErrAlreadyDecided),
		errors.Is(err, ErrChainHalted):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
