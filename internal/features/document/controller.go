package document

import (
	"errors"
	"io"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/approval"
	"go-procure/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DocumentController struct {
	Service DocumentService
}

func NewDocumentController(service DocumentService) *DocumentController {
	return &DocumentController{Service: service}
}

// RegisterDocument godoc
// @Summary Register a document on a work order or procurement
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param kind formData string true "Parent kind (work_order or procurement)"
// @Param parent_id formData string true "Parent ID"
// @Param document_type_id formData string true "Document Type ID"
// @Param generated formData bool false "Mark as system generated"
// @Param extra_roles formData []string false "Extra approval roles appended after the configured chain"
// @Param file formData file false "Document file"
// @Success 201 {object} DocumentInstance
// @Router /api/documents [post]
func (c *DocumentController) RegisterDocument(ctx *fiber.Ctx) error {
	in, err := c.parseRegisterForm(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	doc, err := c.Service.Register(ctx.UserContext(), in)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(doc)
}

// ReplaceDocument godoc
// @Summary Replace a document with a fresh instance
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Document ID"
// @Param file formData file false "Replacement file"
// @Success 201 {object} DocumentInstance
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/documents/{id}/replace [post]
func (c *DocumentController) ReplaceDocument(ctx *fiber.Ctx) error {
	in, err := c.parseRegisterForm(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	doc, err := c.Service.Replace(ctx.UserContext(), ctx.Params("id"), in)
	if err != nil {
		if errors.Is(err, approval.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(doc)
}

// GetDocument godoc
// @Summary Get a document instance
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} DocumentInstance
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/documents/{id} [get]
func (c *DocumentController) GetDocument(ctx *fiber.Ctx) error {
	doc, err := c.Service.GetDocument(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if doc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}
	return ctx.JSON(doc)
}

// ListDocuments godoc
// @Summary List documents of a parent record
// @Tags documents
// @Produce json
// @Param kind query string true "Parent kind (work_order or procurement)"
// @Param parent_id query string true "Parent ID"
// @Success 200 {array} DocumentInstance
// @Router /api/documents [get]
func (c *DocumentController) ListDocuments(ctx *fiber.Ctx) error {
	kind := common_models.DocumentKind(ctx.Query("kind"))
	parentID := ctx.Query("parent_id")
	if kind == "" || parentID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind and parent_id are required"})
	}

	docs, err := c.Service.ListByParent(ctx.UserContext(), kind, parentID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(docs)
}

func (c *DocumentController) parseRegisterForm(ctx *fiber.Ctx) (RegisterInput, error) {
	in := RegisterInput{
		Kind:           common_models.DocumentKind(ctx.FormValue("kind")),
		ParentID:       ctx.FormValue("parent_id"),
		DocumentTypeID: ctx.FormValue("document_type_id"),
		IsGenerated:    ctx.FormValue("generated") == "true",
	}

	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		in.UploadedBy = claims.UserID
	}

	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		in.ExtraRoles = form.Value["extra_roles"]
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return in, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return in, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return in, err
	}
	in.FileName = fileHeader.Filename
	in.Data = data
	return in, nil
}
