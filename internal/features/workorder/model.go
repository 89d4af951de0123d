package workorder

import (
	"time"

	common_models "go-procure/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkOrder is a parent aggregate. Documents reference it by id only; the
// work order never stores back-references to its documents.
type WorkOrder struct {
	ID          primitive.ObjectID         `bson:"_id,omitempty" json:"id"`
	Number      string                     `bson:"number" json:"number"`
	Title       string                     `bson:"title" json:"title"`
	Description string                     `bson:"description,omitempty" json:"description,omitempty"`
	WorkTypeID  string                     `bson:"work_type_id" json:"work_type_id"`
	VendorID    string                     `bson:"vendor_id,omitempty" json:"vendor_id,omitempty"`
	Amount      float64                    `bson:"amount" json:"amount"`
	Status      common_models.ParentStatus `bson:"status" json:"status"`
	CreatedBy   string                     `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt   time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time                  `bson:"updated_at" json:"updated_at"`
}
