package document

import (
	"context"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/worktype"
)

// RequirementSource is the slice of the work type service the completion
// check needs.
type RequirementSource interface {
	ListRequirements(ctx context.Context, workTypeID string) ([]worktype.DocumentRequirement, error)
}

// ParentDocumentLister is the slice of the document repository the completion
// check needs.
type ParentDocumentLister interface {
	ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error)
}

// AllRequiredApproved reports whether every requirement flagged
// RequiresApproval has at least one approved document instance on the parent.
// It is false when the work type has no approval-requiring requirements at
// all, so a parent without document obligations never auto-completes.
func AllRequiredApproved(
	ctx context.Context,
	reqs RequirementSource,
	docs ParentDocumentLister,
	kind common_models.DocumentKind,
	workTypeID, parentID string,
) (bool, error) {
	requirements, err := reqs.ListRequirements(ctx, workTypeID)
	if err != nil {
		return false, err
	}

	instances, err := docs.ListByParent(ctx, kind, parentID)
	if err != nil {
		return false, err
	}
	approved := make(map[string]bool, len(instances))
	for _, doc := range instances {
		if doc.Status == common_models.DocumentStatusApproved {
			approved[doc.DocumentTypeID] = true
		}
	}

	sawRequired := false
	for _, req := range requirements {
		if !req.RequiresApproval {
			continue
		}
		sawRequired = true
		if !approved[req.DocumentTypeID] {
			return false, nil
		}
	}
	return sawRequired, nil
}
