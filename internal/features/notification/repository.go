package notification

import (
	"context"
	"time"

	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id string, userID string) error
}

type NotificationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewNotificationRepository(mongodb *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		Collection: mongodb.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *Notification) error {
	_, err := r.Collection.InsertOne(ctx, n)
	return err
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(100)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var notifications []Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id string, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now()}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid, "user_id": userID}, update)
	return err
}
