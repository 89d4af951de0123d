package document

import (
	"time"

	common_models "go-procure/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentInstance is one concrete document attached to a work order or
// procurement. Instances are immutable once decided; replacement registers a
// fresh instance and marks the old one replaced.
type DocumentInstance struct {
	ID             primitive.ObjectID           `bson:"_id,omitempty" json:"id"`
	Kind           common_models.DocumentKind   `bson:"kind" json:"kind"`
	ParentID       string                       `bson:"parent_id" json:"parent_id"`
	DocumentTypeID string                       `bson:"document_type_id" json:"document_type_id"`
	FileName       string                       `bson:"file_name,omitempty" json:"file_name,omitempty"`
	FilePath       string                       `bson:"file_path,omitempty" json:"file_path,omitempty"`
	FileURL        string                       `bson:"file_url,omitempty" json:"file_url,omitempty"`
	IsGenerated    bool                         `bson:"is_generated" json:"is_generated"`
	// RequiresApproval is copied from the requirement at registration time so
	// later requirement edits do not change in-flight documents.
	RequiresApproval bool                       `bson:"requires_approval" json:"requires_approval"`
	Status           common_models.DocumentStatus `bson:"status" json:"status"`
	// IsApproved stays nil while the chain is undecided.
	IsApproved *bool      `bson:"is_approved,omitempty" json:"is_approved,omitempty"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	ApprovedBy string     `bson:"approved_by,omitempty" json:"approved_by,omitempty"`

	// QrText is an opaque token minted at registration; QrObjectKey points at
	// the rendered PNG under the upload root.
	QrText      string `bson:"qr_text,omitempty" json:"qr_text,omitempty"`
	QrObjectKey string `bson:"qr_object_key,omitempty" json:"qr_object_key,omitempty"`

	ReplacesID string `bson:"replaces_id,omitempty" json:"replaces_id,omitempty"`

	UploadedBy string    `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
