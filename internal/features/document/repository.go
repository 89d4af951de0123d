package document

import (
	"context"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *DocumentInstance) error
	FindByID(ctx context.Context, id string) (*DocumentInstance, error)
	FindByQrText(ctx context.Context, qrText string) (*DocumentInstance, error)
	ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]DocumentInstance, error)
	SetStatus(ctx context.Context, id string, status common_models.DocumentStatus) error
	SetDecision(ctx context.Context, id string, status common_models.DocumentStatus, isApproved bool, approverID string) error
}

type DocumentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDocumentRepository(mongodb *database.MongodbDB) DocumentRepository {
	return &DocumentRepositoryImpl{
		Collection: mongodb.DB.Collection("documents"),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *DocumentInstance) error {
	_, err := r.Collection.InsertOne(ctx, doc)
	return err
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, id string) (*DocumentInstance, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var doc DocumentInstance
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByQrText(ctx context.Context, qrText string) (*DocumentInstance, error) {
	var doc DocumentInstance
	err := r.Collection.FindOne(ctx, bson.M{"qr_text": qrText}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{"kind": kind, "parent_id": parentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []DocumentInstance
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]DocumentInstance, error) {
	filter := bson.M{
		"status":     common_models.DocumentStatusPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []DocumentInstance
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) SetStatus(ctx context.Context, id string, status common_models.DocumentStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *DocumentRepositoryImpl) SetDecision(ctx context.Context, id string, status common_models.DocumentStatus, isApproved bool, approverID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":      status,
		"is_approved": isApproved,
		"approved_at": now,
		"approved_by": approverID,
		"updated_at":  now,
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}
