package procurement

import (
	"time"

	common_models "go-procure/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Procurement is a parent aggregate for purchasing records. It follows the
// same lifecycle as a work order but carries vendor and order detail.
type Procurement struct {
	ID          primitive.ObjectID         `bson:"_id,omitempty" json:"id"`
	Number      string                     `bson:"number" json:"number"`
	Title       string                     `bson:"title" json:"title"`
	Description string                     `bson:"description,omitempty" json:"description,omitempty"`
	WorkTypeID  string                     `bson:"work_type_id" json:"work_type_id"`
	VendorID    string                     `bson:"vendor_id,omitempty" json:"vendor_id,omitempty"`
	Amount      float64                    `bson:"amount" json:"amount"`
	Currency    string                     `bson:"currency,omitempty" json:"currency,omitempty"`
	Status      common_models.ParentStatus `bson:"status" json:"status"`
	CreatedBy   string                     `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt   time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time                  `bson:"updated_at" json:"updated_at"`
}

// Vendor is master data, maintained locally and refreshed from the external
// ERP by the sync feature. ExternalID is the ERP primary key.
type Vendor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID string             `bson:"external_id" json:"external_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
	SyncedAt   *time.Time         `bson:"synced_at,omitempty" json:"synced_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
