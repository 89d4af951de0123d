package doctype

import (
	"context"
	"time"

	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *DocumentType) error
	FindByID(ctx context.Context, id string) (*DocumentType, error)
	FindByName(ctx context.Context, name string) (*DocumentType, error)
	List(ctx context.Context) ([]DocumentType, error)
	Update(ctx context.Context, id string, dt *DocumentType) error
	Delete(ctx context.Context, id string) error
}

type DocumentTypeRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDocumentTypeRepository(mongodb *database.MongodbDB) DocumentTypeRepository {
	return &DocumentTypeRepositoryImpl{
		Collection: mongodb.DB.Collection("document_types"),
	}
}

func (r *DocumentTypeRepositoryImpl) Create(ctx context.Context, dt *DocumentType) error {
	_, err := r.Collection.InsertOne(ctx, dt)
	return err
}

func (r *DocumentTypeRepositoryImpl) FindByID(ctx context.Context, id string) (*DocumentType, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var dt DocumentType
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&dt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &dt, nil
}

func (r *DocumentTypeRepositoryImpl) FindByName(ctx context.Context, name string) (*DocumentType, error) {
	var dt DocumentType
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&dt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &dt, nil
}

func (r *DocumentTypeRepositoryImpl) List(ctx context.Context) ([]DocumentType, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var types []DocumentType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *DocumentTypeRepositoryImpl) Update(ctx context.Context, id string, dt *DocumentType) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"name":        dt.Name,
			"description": dt.Description,
			"updated_at":  time.Now(),
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *DocumentTypeRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
