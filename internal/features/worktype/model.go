package worktype

import (
	"time"

	common_models "go-procure/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkType categorizes work orders and procurements. Each work type owns the
// document requirements that apply to records of that type.
type WorkType struct {
	ID          primitive.ObjectID        `bson:"_id,omitempty" json:"id"`
	Name        string                    `bson:"name" json:"name"`
	Description string                    `bson:"description,omitempty" json:"description,omitempty"`
	Kind        common_models.DocumentKind `bson:"kind" json:"kind"`
	CreatedAt   time.Time                 `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time                 `bson:"updated_at" json:"updated_at"`
}

// ApprovalStepDef is one rung of the required approval ladder for a document
// requirement. Ordering is Level ascending, then SequenceOrder ascending;
// (Level, SequenceOrder) pairs are unique within one requirement.
type ApprovalStepDef struct {
	Level         int    `bson:"level" json:"level"`                   // Coarse stage, >= 1
	SequenceOrder int    `bson:"sequence_order" json:"sequence_order"` // Tie-break within level
	RoleID        string `bson:"role_id" json:"role_id"`               // Role empowered to act at this rung
}

// DocumentRequirement links a WorkType to a DocumentType and configures how
// documents of that type behave on records of that work type.
type DocumentRequirement struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkTypeID       string             `bson:"work_type_id" json:"work_type_id"`
	DocumentTypeID   string             `bson:"document_type_id" json:"document_type_id"`
	IsMandatory      bool               `bson:"is_mandatory" json:"is_mandatory"`
	IsGenerated      bool               `bson:"is_generated" json:"is_generated"`
	IsUploadRequired bool               `bson:"is_upload_required" json:"is_upload_required"`
	RequiresApproval bool               `bson:"requires_approval" json:"requires_approval"`
	Sequence         int                `bson:"sequence" json:"sequence"`
	Steps            []ApprovalStepDef  `bson:"steps,omitempty" json:"steps,omitempty"`
	// EscalationScript is an optional tengo script evaluated at chain
	// resolution time. It may append ad hoc approver roles via the
	// `extra_roles` variable; `amount` is provided as input.
	EscalationScript string    `bson:"escalation_script,omitempty" json:"escalation_script,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
