package procurement

import (
	common_models "go-procure/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type ProcurementController struct {
	Service ProcurementService
}

func NewProcurementController(service ProcurementService) *ProcurementController {
	return &ProcurementController{Service: service}
}

// CreateProcurement godoc
// @Summary Create a procurement
// @Tags procurements
// @Accept json
// @Produce json
// @Param procurement body Procurement true "Procurement"
// @Success 201 {object} Procurement
// @Router /api/procurements [post]
func (c *ProcurementController) CreateProcurement(ctx *fiber.Ctx) error {
	var input Procurement
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateProcurement(ctx.UserContext(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListProcurements godoc
// @Summary List procurements
// @Tags procurements
// @Produce json
// @Param status query string false "Filter by status (open, in_progress, completed)"
// @Success 200 {array} Procurement
// @Router /api/procurements [get]
func (c *ProcurementController) ListProcurements(ctx *fiber.Ctx) error {
	status := common_models.ParentStatus(ctx.Query("status"))
	procurements, err := c.Service.ListProcurements(ctx.UserContext(), status)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(procurements)
}

// GetProcurement godoc
// @Summary Get a procurement
// @Tags procurements
// @Produce json
// @Param id path string true "Procurement ID"
// @Success 200 {object} Procurement
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/procurements/{id} [get]
func (c *ProcurementController) GetProcurement(ctx *fiber.Ctx) error {
	p, err := c.Service.GetProcurement(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if p == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Procurement not found"})
	}
	return ctx.JSON(p)
}

// UpdateProcurement godoc
// @Summary Update a procurement
// @Tags procurements
// @Accept json
// @Produce json
// @Param id path string true "Procurement ID"
// @Param procurement body Procurement true "Procurement"
// @Success 200 {object} map[string]string "Updated"
// @Router /api/procurements/{id} [put]
func (c *ProcurementController) UpdateProcurement(ctx *fiber.Ctx) error {
	var input Procurement
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateProcurement(ctx.UserContext(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Procurement updated"})
}

// DeleteProcurement godoc
// @Summary Delete a procurement
// @Tags procurements
// @Param id path string true "Procurement ID"
// @Success 204 {object} nil "No Content"
// @Router /api/procurements/{id} [delete]
func (c *ProcurementController) DeleteProcurement(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteProcurement(ctx.UserContext(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ListVendors godoc
// @Summary List vendors
// @Tags procurements
// @Produce json
// @Success 200 {array} Vendor
// @Router /api/vendors [get]
func (c *ProcurementController) ListVendors(ctx *fiber.Ctx) error {
	vendors, err := c.Service.ListVendors(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(vendors)
}
