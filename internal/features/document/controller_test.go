package document

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/approval"

	"github.com/gofiber/fiber/v2"
)

type stubDocumentService struct {
	replaceErr error
}

func (s stubDocumentService) Register(ctx context.Context, in RegisterInput) (*DocumentInstance, error) {
	return &DocumentInstance{}, nil
}

func (s stubDocumentService) Replace(ctx context.Context, documentID string, in RegisterInput) (*DocumentInstance, error) {
	if s.replaceErr != nil {
		return nil, s.replaceErr
	}
	return &DocumentInstance{}, nil
}

func (s stubDocumentService) GetDocument(ctx context.Context, id string) (*DocumentInstance, error) {
	return nil, nil
}

func (s stubDocumentService) ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error) {
	return nil, nil
}

func TestReplaceDocumentStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		replaceErr error
		wantStatus int
	}{
		{"Unknown Document", approval.ErrNotFound, fiber.StatusNotFound},
		{"Service Failure", errors.New("mongo down"), fiber.StatusInternalServerError},
		{"Replaced", nil, fiber.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewDocumentController(stubDocumentService{replaceErr: tt.replaceErr})
			app := fiber.New()
			app.Post("/api/documents/:id/replace", controller.ReplaceDocument)

			req := httptest.NewRequest(fiber.MethodPost, "/api/documents/doc1/replace", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
