package procurement

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

type ProcurementRepository interface {
	Create(ctx context.Context, p *Procurement) error
	FindByID(ctx context.Context, id string) (*Procurement, error)
	List(ctx context.Context, status common_models.ParentStatus) ([]Procurement, error)
	Update(ctx context.Context, id string, p *Procurement) error
	SetStatus(ctx context.Context, id string, status common_models.ParentStatus) error
	Delete(ctx context.Context, id string) error

	UpsertVendor(ctx context.Context, v *Vendor) error
	FindVendorByID(ctx context.Context, id string) (*Vendor, error)
	ListVendors(ctx context.Context) ([]Vendor, error)
}

type ProcurementRepositoryImpl struct {
	Collection *mongo.Collection
	Vendors    *mongo.Collection
}

func NewProcurementRepository(mongodb *database.MongodbDB) ProcurementRepository {
	return &ProcurementRepositoryImpl{
		Collection: mongodb.DB.Collection("procurements"),
		Vendors:    mongodb.DB.Collection("vendors"),
	}
}

func (r *ProcurementRepositoryImpl) Create(ctx context.Context, p *Procurement) error {
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

func (r *ProcurementRepositoryImpl) FindByID(ctx context.Context, id string) (*Procurement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var p Procurement
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProcurementRepositoryImpl) List(ctx context.Context, status common_models.ParentStatus) ([]Procurement, error) {
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
	var procurements []Procurement
	if err = cursor.All(ctx, &procurements); err != nil {
		return nil, err
	}
	return procurements, nil
}

func (r *ProcurementRepositoryImpl) Update(ctx context.Context, id string, p *Procurement) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"title":       p.Title,
		"description": p.Description,
		"vendor_id":   p.VendorID,
		"amount":      p.Amount,
		"currency":    p.Currency,
		"updated_at":  time.Now(),
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *ProcurementRepositoryImpl) SetStatus(ctx context.Context, id string, status common_models.ParentStatus) error {
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

func (r *ProcurementRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *ProcurementRepositoryImpl) UpsertVendor(ctx context.Context, v *Vendor) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       v.Name,
			"email":      v.Email,
			"phone":      v.Phone,
			"address":    v.Address,
			"is_active":  v.IsActive,
			"synced_at":  now,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"external_id": v.ExternalID,
			"created_at":  now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.Vendors.UpdateOne(ctx, bson.M{"external_id": v.ExternalID}, update, opts)
	return err
}

func (r *ProcurementRepositoryImpl) FindVendorByID(ctx context.Context, id string) (*Vendor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var v Vendor
	err = r.Vendors.FindOne(ctx, bson.M{"_id": oid}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *ProcurementRepositoryImpl) ListVendors(ctx context.Context) ([]Vendor, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.Vendors.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var vendors []Vendor
	if err = cursor.All(ctx, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}
