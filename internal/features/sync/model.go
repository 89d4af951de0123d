package sync

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncRun records one vendor import from the external ERP.
type SyncRun struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Source      string             `bson:"source" json:"source"` // driver name
	Table       string             `bson:"table" json:"table"`
	RowsRead    int                `bson:"rows_read" json:"rows_read"`
	RowsUpserted int               `bson:"rows_upserted" json:"rows_upserted"`
	Status      string             `bson:"status" json:"status"` // success, failed
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt   time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt  time.Time          `bson:"finished_at" json:"finished_at"`
	TriggeredBy string             `bson:"triggered_by,omitempty" json:"triggered_by,omitempty"`
}
