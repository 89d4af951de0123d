package approval

import (
	"context"
	"time"

	common_models "go-procure/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StepRef is one rung of a resolved approval chain, ordered by
// (Level, SequenceOrder). RoleName is resolved at evaluation time; an empty
// name means the role was deleted and the rung can never be satisfied.
// IsExtra marks rungs appended beyond the requirement's configured steps.
type StepRef struct {
	Level         int    `json:"level"`
	SequenceOrder int    `json:"sequence_order"`
	RoleID        string `json:"role_id"`
	RoleName      string `json:"role_name"`
	IsExtra       bool   `json:"is_extra,omitempty"`
}

// LedgerEntry is the persisted record of one rung of a document's chain.
// Entries are inserted pending at instantiation and decided exactly once.
type LedgerEntry struct {
	ID            primitive.ObjectID           `bson:"_id,omitempty" json:"id"`
	DocumentID    string                       `bson:"document_id" json:"document_id"`
	Level         int                          `bson:"level" json:"level"`
	SequenceOrder int                          `bson:"sequence_order" json:"sequence_order"`
	RoleID        string                       `bson:"role_id" json:"role_id"`
	RoleName      string                       `bson:"role_name" json:"role_name"`
	Status        common_models.DecisionStatus `bson:"status" json:"status"`
	IsExtra       bool                         `bson:"is_extra,omitempty" json:"is_extra,omitempty"`
	ApproverID    string                       `bson:"approver_id,omitempty" json:"approver_id,omitempty"`
	Note          string                       `bson:"note,omitempty" json:"note,omitempty"`
	DecidedAt     *time.Time                   `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	CreatedAt     time.Time                    `bson:"created_at" json:"created_at"`
}

// Actor is whoever is trying to pass a gate. Roles carries role names as
// opaque strings, exactly as issued in the JWT.
type Actor struct {
	UserID string
	Roles  []string
}

// HasRole is an exact, case-sensitive match.
func (a Actor) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// GateInfo is the QR lookup result: which rung of which document is waiting,
// recomputed live from the chain definition and the ledger. HasPendingGate is
// false on a fully satisfied or halted chain; that is not a lookup failure.
type GateInfo struct {
	DocumentID     string                       `json:"document_id"`
	DocumentStatus common_models.DocumentStatus `json:"document_status"`
	Kind           common_models.DocumentKind   `json:"kind"`
	ParentID       string                       `json:"parent_id"`
	HasPendingGate bool                         `json:"has_pending_gate"`
	Halted         bool                         `json:"halted"`
	Level          int                          `json:"level,omitempty"`
	SequenceOrder  int                          `json:"sequence_order,omitempty"`
	RoleID         string                       `json:"role_id,omitempty"`
	RoleName       string                       `json:"role_name,omitempty"`
	PendingEntries []LedgerEntry                `json:"pending_entries,omitempty"`
}

// DocumentRef is the slice of a document instance the approval engine needs.
type DocumentRef struct {
	ID               string
	Kind             common_models.DocumentKind
	ParentID         string
	DocumentTypeID   string
	Status           common_models.DocumentStatus
	RequiresApproval bool
}

// DocumentStore is the engine's read/write port onto document instances.
// The document feature adapts its repository to this.
type DocumentStore interface {
	FindRef(ctx context.Context, id string) (*DocumentRef, error)
	FindRefByQr(ctx context.Context, qrText string) (*DocumentRef, error)
	SetDecision(ctx context.Context, id string, status common_models.DocumentStatus, isApproved bool, approverID string) error
}

// ParentAggregate is the port onto work orders and procurements. The engine
// is generic over the kind; the registry binds one aggregate per kind.
type ParentAggregate interface {
	Amount(ctx context.Context, parentID string) (float64, error)
	WorkTypeID(ctx context.Context, parentID string) (string, error)
	OnDocumentRegistered(ctx context.Context, parentID string) error
	OnDocumentDecided(ctx context.Context, parentID string) error
}

type ParentRegistry map[common_models.DocumentKind]ParentAggregate
