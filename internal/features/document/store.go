package document

import (
	"context"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/approval"
)

// StoreAdapter exposes the document repository through the approval engine's
// DocumentStore port.
type StoreAdapter struct {
	Repo DocumentRepository
}

func NewStoreAdapter(repo DocumentRepository) approval.DocumentStore {
	return &StoreAdapter{Repo: repo}
}

func (a *StoreAdapter) FindRef(ctx context.Context, id string) (*approval.DocumentRef, error) {
	doc, err := a.Repo.FindByID(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}
	return toRef(doc), nil
}

func (a *StoreAdapter) FindRefByQr(ctx context.Context, qrText string) (*approval.DocumentRef, error) {
	doc, err := a.Repo.FindByQrText(ctx, qrText)
	if err != nil || doc == nil {
		return nil, err
	}
	return toRef(doc), nil
}

func (a *StoreAdapter) SetDecision(ctx context.Context, id string, status common_models.DocumentStatus, isApproved bool, approverID string) error {
	return a.Repo.SetDecision(ctx, id, status, isApproved, approverID)
}

func toRef(doc *DocumentInstance) *approval.DocumentRef {
	return &approval.DocumentRef{
		ID:               doc.ID.Hex(),
		Kind:             doc.Kind,
		ParentID:         doc.ParentID,
		DocumentTypeID:   doc.DocumentTypeID,
		Status:           doc.Status,
		RequiresApproval: doc.RequiresApproval,
	}
}
