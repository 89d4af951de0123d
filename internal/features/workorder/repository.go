package workorder

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

type WorkOrderRepository interface {
	Create(ctx context.Context, wo *WorkOrder) error
	FindByID(ctx context.Context, id string) (*WorkOrder, error)
	List(ctx context.Context, status common_models.ParentStatus) ([]WorkOrder, error)
	Update(ctx context.Context, id string, wo *WorkOrder) error
	SetStatus(ctx context.Context, id string, status common_models.ParentStatus) error
	Delete(ctx context.Context, id string) error
}

type WorkOrderRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWorkOrderRepository(mongodb *database.MongodbDB) WorkOrderRepository {
	return &WorkOrderRepositoryImpl{
		Collection: mongodb.DB.Collection("work_orders"),
	}
}

func (r *WorkOrderRepositoryImpl) Create(ctx context.Context, wo *WorkOrder) error {
	_, err := r.Collection.InsertOne(ctx, wo)
	return err
}

func (r *WorkOrderRepositoryImpl) FindByID(ctx context.Context, id string) (*WorkOrder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var wo WorkOrder
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&wo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepositoryImpl) List(ctx context.Context, status common_models.ParentStatus) ([]WorkOrder, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var orders []WorkOrder
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *WorkOrderRepositoryImpl) Update(ctx context.Context, id string, wo *WorkOrder) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"title":       wo.Title,
		"description": wo.Description,
		"vendor_id":   wo.VendorID,
		"amount":      wo.Amount,
		"updated_at":  time.Now(),
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *WorkOrderRepositoryImpl) SetStatus(ctx context.Context, id string, status common_models.ParentStatus) error {
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

func (r *WorkOrderRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
