package doctype

import (
	"github.com/gofiber/fiber/v2"
)

type DocumentTypeController struct {
	Service DocumentTypeService
}

func NewDocumentTypeController(service DocumentTypeService) *DocumentTypeController {
	return &DocumentTypeController{Service: service}
}

// Create godoc
// @Summary Create a document type
// @Tags document-types
// @Accept json
// @Produce json
// @Param documentType body DocumentType true "Document Type"
// @Success 201 {object} DocumentType
// @Router /api/document-types [post]
func (c *DocumentTypeController) Create(ctx *fiber.Ctx) error {
	var input DocumentType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.Create(ctx.UserContext(), &input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// List godoc
// @Summary List document types
// @Tags document-types
// @Produce json
// @Success 200 {array} DocumentType
// @Router /api/document-types [get]
func (c *DocumentTypeController) List(ctx *fiber.Ctx) error {
	types, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(types)
}

// Get godoc
// @Summary Get a document type
// @Tags document-types
// @Produce json
// @Param id path string true "Document Type ID"
// @Success 200 {object} DocumentType
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/document-types/{id} [get]
func (c *DocumentTypeController) Get(ctx *fiber.Ctx) error {
	dt, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if dt == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document type not found"})
	}
	return ctx.JSON(dt)
}

// Update godoc
// @Summary Update a document type
// @Tags document-types
// @Accept json
// @Produce json
// @Param id path string true "Document Type ID"
// @Param documentType body DocumentType true "Document Type"
// @Success 200 {object} map[string]string "Updated"
// @Router /api/document-types/{id} [put]
func (c *DocumentTypeController) Update(ctx *fiber.Ctx) error {
	var input DocumentType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.Update(ctx.UserContext(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Document type updated"})
}

// Delete godoc
// @Summary Delete a document type
// @Tags document-types
// @Param id path string true "Document Type ID"
// @Success 204 {object} nil "No Content"
// @Router /api/document-types/{id} [delete]
func (c *DocumentTypeController) Delete(ctx *fiber.Ctx) error {
	if err := c.Service.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
