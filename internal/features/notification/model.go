package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	RoleName  string             `bson:"role_name,omitempty" json:"role_name,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	// Kind distinguishes approval events from reminders and system notices.
	Kind       string    `bson:"kind" json:"kind"` // approval, reminder, system
	DocumentID string    `bson:"document_id,omitempty" json:"document_id,omitempty"`
	IsRead     bool      `bson:"is_read" json:"is_read"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
