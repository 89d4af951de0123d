package role

import (
	"context"
	"time"

	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, id string, role *Role) error
	Delete(ctx context.Context, id string) error
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *Role) error {
	_, err := r.Collection.InsertOne(ctx, role)
	return err
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var role Role
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]Role, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var roles []Role
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, id string, role *Role) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"name":        role.Name,
			"description": role.Description,
			"updated_at":  time.Now(),
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
