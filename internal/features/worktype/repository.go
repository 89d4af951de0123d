package worktype

import (
	"context"
	"time"

	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkTypeRepository interface {
	Create(ctx context.Context, wt *WorkType) error
	FindByID(ctx context.Context, id string) (*WorkType, error)
	FindByName(ctx context.Context, name string) (*WorkType, error)
	List(ctx context.Context) ([]WorkType, error)
	Update(ctx context.Context, id string, wt *WorkType) error
	Delete(ctx context.Context, id string) error

	CreateRequirement(ctx context.Context, req *DocumentRequirement) error
	FindRequirement(ctx context.Context, workTypeID, documentTypeID string) (*DocumentRequirement, error)
	FindRequirementByID(ctx context.Context, id string) (*DocumentRequirement, error)
	ListRequirements(ctx context.Context, workTypeID string) ([]DocumentRequirement, error)
	UpdateRequirement(ctx context.Context, id string, req *DocumentRequirement) error
	DeleteRequirement(ctx context.Context, id string) error
}

type WorkTypeRepositoryImpl struct {
	Collection   *mongo.Collection
	Requirements *mongo.Collection
}

func NewWorkTypeRepository(mongodb *database.MongodbDB) WorkTypeRepository {
	return &WorkTypeRepositoryImpl{
		Collection:   mongodb.DB.Collection("work_types"),
		Requirements: mongodb.DB.Collection("document_requirements"),
	}
}

func (r *WorkTypeRepositoryImpl) Create(ctx context.Context, wt *WorkType) error {
	_, err := r.Collection.InsertOne(ctx, wt)
	return err
}

func (r *WorkTypeRepositoryImpl) FindByID(ctx context.Context, id string) (*WorkType, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var wt WorkType
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&wt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wt, nil
}

func (r *WorkTypeRepositoryImpl) FindByName(ctx context.Context, name string) (*WorkType, error) {
	var wt WorkType
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&wt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wt, nil
}

func (r *WorkTypeRepositoryImpl) List(ctx context.Context) ([]WorkType, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var types []WorkType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *WorkTypeRepositoryImpl) Update(ctx context.Context, id string, wt *WorkType) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"name":        wt.Name,
			"description": wt.Description,
			"kind":        wt.Kind,
			"updated_at":  time.Now(),
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *WorkTypeRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	if _, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return err
	}
	_, err = r.Requirements.DeleteMany(ctx, bson.M{"work_type_id": id})
	return err
}

func (r *WorkTypeRepositoryImpl) CreateRequirement(ctx context.Context, req *DocumentRequirement) error {
	_, err := r.Requirements.InsertOne(ctx, req)
	return err
}

func (r *WorkTypeRepositoryImpl) FindRequirement(ctx context.Context, workTypeID, documentTypeID string) (*DocumentRequirement, error) {
	var req DocumentRequirement
	err := r.Requirements.FindOne(ctx, bson.M{
		"work_type_id":     workTypeID,
		"document_type_id": documentTypeID,
	}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *WorkTypeRepositoryImpl) FindRequirementByID(ctx context.Context, id string) (*DocumentRequirement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var req DocumentRequirement
	err = r.Requirements.FindOne(ctx, bson.M{"_id": oid}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *WorkTypeRepositoryImpl) ListRequirements(ctx context.Context, workTypeID string) ([]DocumentRequirement, error) {
	opts := options.Find().SetSort(bson.M{"sequence": 1})
	cursor, err := r.Requirements.Find(ctx, bson.M{"work_type_id": workTypeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var reqs []DocumentRequirement
	if err = cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *WorkTypeRepositoryImpl) UpdateRequirement(ctx context.Context, id string, req *DocumentRequirement) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"is_mandatory":       req.IsMandatory,
			"is_generated":       req.IsGenerated,
			"is_upload_required": req.IsUploadRequired,
			"requires_approval":  req.RequiresApproval,
			"sequence":           req.Sequence,
			"steps":              req.Steps,
			"escalation_script":  req.EscalationScript,
			"updated_at":         time.Now(),
		},
	}
	_, err = r.Requirements.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *WorkTypeRepositoryImpl) DeleteRequirement(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Requirements.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
