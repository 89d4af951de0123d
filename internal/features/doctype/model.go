package doctype

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentType is a kind of document, e.g. "Service Order" or "Risk Assessment".
type DocumentType struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsSystem    bool               `bson:"is_system" json:"is_system"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
