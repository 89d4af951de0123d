package worktype

import (
	"github.com/gofiber/fiber/v2"
)

type WorkTypeController struct {
	Service WorkTypeService
}

func NewWorkTypeController(service WorkTypeService) *WorkTypeController {
	return &WorkTypeController{Service: service}
}

// CreateWorkType godoc
// @Summary Create a work type
// @Tags work-types
// @Accept json
// @Produce json
// @Param workType body WorkType true "Work Type"
// @Success 201 {object} WorkType
// @Router /api/work-types [post]
func (c *WorkTypeController) CreateWorkType(ctx *fiber.Ctx) error {
	var input WorkType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateWorkType(ctx.UserContext(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListWorkTypes godoc
// @Summary List work types
// @Tags work-types
// @Produce json
// @Success 200 {array} WorkType
// @Router /api/work-types [get]
func (c *WorkTypeController) ListWorkTypes(ctx *fiber.Ctx) error {
	types, err := c.Service.ListWorkTypes(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(types)
}

// GetWorkType godoc
// @Summary Get a work type
// @Tags work-types
// @Produce json
// @Param id path string true "Work Type ID"
// @Success 200 {object} WorkType
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/work-types/{id} [get]
func (c *WorkTypeController) GetWorkType(ctx *fiber.Ctx) error {
	wt, err := c.Service.GetWorkType(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if wt == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Work type not found"})
	}
	return ctx.JSON(wt)
}

// UpdateWorkType godoc
// @Summary Update a work type
// @Tags work-types
// @Accept json
// @Produce json
// @Param id path string true "Work Type ID"
// @Param workType body WorkType true "Work Type"
// @Success 200 {object} map[string]string "Updated"
// @Router /api/work-types/{id} [put]
func (c *WorkTypeController) UpdateWorkType(ctx *fiber.Ctx) error {
	var input WorkType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateWorkType(ctx.UserContext(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Work type updated"})
}

// DeleteWorkType godoc
// @Summary Delete a work type and its requirements
// @Tags work-types
// @Param id path string true "Work Type ID"
// @Success 204 {object} nil "No Content"
// @Router /api/work-types/{id} [delete]
func (c *WorkTypeController) DeleteWorkType(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteWorkType(ctx.UserContext(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// CreateRequirement godoc
// @Summary Add a document requirement to a work type
// @Tags work-types
// @Accept json
// @Produce json
// @Param id path string true "Work Type ID"
// @Param requirement body DocumentRequirement true "Requirement"
// @Success 201 {object} DocumentRequirement
// @Router /api/work-types/{id}/requirements [post]
func (c *WorkTypeController) CreateRequirement(ctx *fiber.Ctx) error {
	var input DocumentRequirement
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	input.WorkTypeID = ctx.Params("id")

	created, err := c.Service.CreateRequirement(ctx.UserContext(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListRequirements godoc
// @Summary List document requirements of a work type
// @Tags work-types
// @Produce json
// @Param id path string true "Work Type ID"
// @Success 200 {array} DocumentRequirement
// @Router /api/work-types/{id}/requirements [get]
func (c *WorkTypeController) ListRequirements(ctx *fiber.Ctx) error {
	reqs, err := c.Service.ListRequirements(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(reqs)
}

// UpdateRequirement godoc
// @Summary Update a document requirement
// @Tags work-types
// @Accept json
// @Produce json
// @Param id path string true "Work Type ID"
// @Param reqId path string true "Requirement ID"
// @Param requirement body DocumentRequirement true "Requirement"
// @Success 200 {object} map[string]string "Updated"
// @Router /api/work-types/{id}/requirements/{reqId} [put]
func (c *WorkTypeController) UpdateRequirement(ctx *fiber.Ctx) error {
	var input DocumentRequirement
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateRequirement(ctx.UserContext(), ctx.Params("reqId"), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Requirement updated"})
}

// DeleteRequirement godoc
// @Summary Delete a document requirement
// @Tags work-types
// @Param id path string true "Work Type ID"
// @Param reqId path string true "Requirement ID"
// @Success 204 {object} nil "No Content"
// @Router /api/work-types/{id}/requirements/{reqId} [delete]
func (c *WorkTypeController) DeleteRequirement(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteRequirement(ctx.UserContext(), ctx.Params("reqId")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
