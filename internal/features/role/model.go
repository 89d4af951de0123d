package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is an approval actor category. The approval engine treats role
// identity as an opaque string; everything else here is directory metadata.
type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsSystem    bool               `bson:"is_system" json:"is_system"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
