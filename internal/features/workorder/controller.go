package workorder

import (
	common_models "go-procure/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type WorkOrderController struct {
	Service WorkOrderService
}

func NewWorkOrderController(service WorkOrderService) *WorkOrderController {
	return &WorkOrderController{Service: service}
}

// CreateWorkOrder godoc
// @Summary Create a work order
// @Tags work-orders
// @Accept json
// @Produce json
// @Param workOrder body WorkOrder true "Work Order"
// @Success 201 {object} WorkOrder
// @Router /api/work-orders [post]
func (c *WorkOrderController) CreateWorkOrder(ctx *fiber.Ctx) error {
	var input WorkOrder
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateWorkOrder(ctx.UserContext(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListWorkOrders godoc
// @Summary List work orders
// @Tags work-orders
// @Produce json
// @Param status query string false "Filter by status (open, in_progress, completed)"
// @Success 200 {array} WorkOrder
// @Router /api/work-orders [get]
func (c *WorkOrderController) ListWorkOrders(ctx *fiber.Ctx) error {
	status := common_models.ParentStatus(ctx.Query("status"))
	orders, err := c.Service.ListWorkOrders(ctx.UserContext(), status)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(orders)
}

// GetWorkOrder godoc
// @Summary Get a work order
// @Tags work-orders
// @Produce json
// @Param id path string true "Work Order ID"
// @Success 200 {object} WorkOrder
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/work-orders/{id} [get]
func (c *WorkOrderController) GetWorkOrder(ctx *fiber.Ctx) error {
	wo, err := c.Service.GetWorkOrder(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if wo == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Work order not found"})
	}
	return ctx.JSON(wo)
}

// UpdateWorkOrder godoc
// @Summary Update a work order
// @Tags work-orders
// @Accept json
// @Produce json
// @Param id path string true "Work Order ID"
// @Param workOrder body WorkOrder true "Work Order"
// @Success 200 {object} map[string]string "Updated"
// @Router /api/work-orders/{id} [put]
func (c *WorkOrderController) UpdateWorkOrder(ctx *fiber.Ctx) error {
	var input WorkOrder
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateWorkOrder(ctx.UserContext(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Work order updated"})
}

// DeleteWorkOrder godoc
// @Summary Delete a work order
// @Tags work-orders
// @Param id path string true "Work Order ID"
// @Success 204 {object} nil "No Content"
// @Router /api/work-orders/{id} [delete]
func (c *WorkOrderController) DeleteWorkOrder(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteWorkOrder(ctx.UserContext(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
