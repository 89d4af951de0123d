package report

import (
	"context"
	"time"

	"go-procure/internal/database"
	"go-procure/internal/features/approval"
	"go-procure/internal/features/document"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository interface {
	// ListLedgerEntries returns decided and pending entries, optionally
	// restricted to a decision window.
	ListLedgerEntries(ctx context.Context, from, to *time.Time) ([]approval.LedgerEntry, error)
	FindDocuments(ctx context.Context, ids []string) (map[string]document.DocumentInstance, error)
}

type ReportRepositoryImpl struct {
	Ledger    *mongo.Collection
	Documents *mongo.Collection
}

func NewReportRepository(mongodb *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		Ledger:    mongodb.DB.Collection("approval_ledger"),
		Documents: mongodb.DB.Collection("documents"),
	}
}

func (r *ReportRepositoryImpl) ListLedgerEntries(ctx context.Context, from, to *time.Time) ([]approval.LedgerEntry, error) {
	filter := bson.M{}
	if from != nil || to != nil {
		window := bson.M{}
		if from != nil {
			window["$gte"] = *from
		}
		if to != nil {
			window["$lt"] = *to
		}
		filter["decided_at"] = window
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "document_id", Value: 1},
		{Key: "level", Value: 1},
		{Key: "sequence_order", Value: 1},
	})
	cursor, err := r.Ledger.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []approval.LedgerEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ReportRepositoryImpl) FindDocuments(ctx context.Context, ids []string) (map[string]document.DocumentInstance, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return map[string]document.DocumentInstance{}, nil
	}

	cursor, err := r.Documents.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make(map[string]document.DocumentInstance)
	for cursor.Next(ctx) {
		var doc document.DocumentInstance
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs[doc.ID.Hex()] = doc
	}
	return docs, cursor.Err()
}
