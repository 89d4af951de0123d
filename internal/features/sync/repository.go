package sync

import (
	"context"

	"go-procure/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SyncRepository interface {
	CreateRun(ctx context.Context, run *SyncRun) error
	ListRuns(ctx context.Context, limit int64) ([]SyncRun, error)
}

type SyncRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSyncRepository(mongodb *database.MongodbDB) SyncRepository {
	return &SyncRepositoryImpl{
		Collection: mongodb.DB.Collection("sync_runs"),
	}
}

func (r *SyncRepositoryImpl) CreateRun(ctx context.Context, run *SyncRun) error {
	_, err := r.Collection.InsertOne(ctx, run)
	return err
}

func (r *SyncRepositoryImpl) ListRuns(ctx context.Context, limit int64) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"started_at": -1}).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var runs []SyncRun
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
