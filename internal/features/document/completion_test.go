package document

import (
	"context"
	"testing"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/worktype"
)

type stubRequirements struct {
	reqs []worktype.DocumentRequirement
}

func (s stubRequirements) ListRequirements(ctx context.Context, workTypeID string) ([]worktype.DocumentRequirement, error) {
	return s.reqs, nil
}

type stubDocuments struct {
	docs []DocumentInstance
}

func (s stubDocuments) ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error) {
	return s.docs, nil
}

func TestAllRequiredApproved(t *testing.T) {
	required := func(docTypeID string) worktype.DocumentRequirement {
		return worktype.DocumentRequirement{DocumentTypeID: docTypeID, RequiresApproval: true}
	}
	optional := func(docTypeID string) worktype.DocumentRequirement {
		return worktype.DocumentRequirement{DocumentTypeID: docTypeID, RequiresApproval: false}
	}
	doc := func(docTypeID string, status common_models.DocumentStatus) DocumentInstance {
		return DocumentInstance{DocumentTypeID: docTypeID, Status: status}
	}

	tests := []struct {
		name string
		reqs []worktype.DocumentRequirement
		docs []DocumentInstance
		want bool
	}{
		{
			name: "All Required Approved",
			reqs: []worktype.DocumentRequirement{required("dt1"), required("dt2")},
			docs: []DocumentInstance{
				doc("dt1", common_models.DocumentStatusApproved),
				doc("dt2", common_models.DocumentStatusApproved),
			},
			want: true,
		},
		{
			name: "One Requirement Missing",
			reqs: []worktype.DocumentRequirement{required("dt1"), required("dt2")},
			docs: []DocumentInstance{doc("dt1", common_models.DocumentStatusApproved)},
			want: false,
		},
		{
			name: "Pending Does Not Count",
			reqs: []worktype.DocumentRequirement{required("dt1")},
			docs: []DocumentInstance{doc("dt1", common_models.DocumentStatusPending)},
			want: false,
		},
		{
			name: "No Approval Requirements",
			reqs: []worktype.DocumentRequirement{optional("dt1")},
			docs: []DocumentInstance{doc("dt1", common_models.DocumentStatusUploaded)},
			want: false,
		},
		{
			name: "Optional Requirement Ignored",
			reqs: []worktype.DocumentRequirement{required("dt1"), optional("dt2")},
			docs: []DocumentInstance{doc("dt1", common_models.DocumentStatusApproved)},
			want: true,
		},
		{
			name: "Replaced Instance Covered By Fresh One",
			reqs: []worktype.DocumentRequirement{required("dt1")},
			docs: []DocumentInstance{
				doc("dt1", common_models.DocumentStatusReplaced),
				doc("dt1", common_models.DocumentStatusApproved),
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AllRequiredApproved(context.Background(),
				stubRequirements{reqs: tt.reqs}, stubDocuments{docs: tt.docs},
				common_models.KindWorkOrder, "wt1", "parent1")
			if err != nil {
				t.Fatalf("AllRequiredApproved() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AllRequiredApproved() = %v, want %v", got, tt.want)
			}
		})
	}
}
