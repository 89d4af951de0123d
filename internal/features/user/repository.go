package user

import (
	"context"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	Create(ctx context.Context, user *common_models.User) error
	FindByID(ctx context.Context, id string) (*common_models.User, error)
	FindByUsername(ctx context.Context, username string) (*common_models.User, error)
	FindByRole(ctx context.Context, roleName string) ([]common_models.User, error)
	List(ctx context.Context) ([]common_models.User, error)
	Update(ctx context.Context, id string, update bson.M) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *common_models.User) error {
	_, err := r.Collection.InsertOne(ctx, user)
	return err
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*common_models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var user common_models.User
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*common_models.User, error) {
	var user common_models.User
	err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByRole(ctx context.Context, roleName string) ([]common_models.User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"roles": roleName, "status": "active"})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]common_models.User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	return err
}
