package approval

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

type LedgerRepository interface {
	// EnsureIndexes creates the unique (document_id, level, sequence_order)
	// index the instantiation transaction relies on.
	EnsureIndexes(ctx context.Context) error

	// InsertChain writes all entries for a document in one transaction.
	// Returns ErrChainAlreadyInstantiated when any entry exists, including
	// under concurrent instantiation attempts.
	InsertChain(ctx context.Context, documentID string, entries []LedgerEntry) error

	ListByDocument(ctx context.Context, documentID string) ([]LedgerEntry, error)
	ListApproved(ctx context.Context, documentID string) ([]LedgerEntry, error)
	FindByID(ctx context.Context, id string) (*LedgerEntry, error)
	ApprovedRoleIDs(ctx context.Context, documentID string) (map[string]bool, error)
	HasRejection(ctx context.Context, documentID string) (bool, error)

	// LastDecisionByUser returns the user's most recently decided entry on the
	// document, nil when the user has never decided on it.
	LastDecisionByUser(ctx context.Context, documentID, approverID string) (*LedgerEntry, error)

	// DecideForRole flips the first pending entry for the role from pending
	// to the given status. The pending-only filter makes concurrent deciders
	// race for one winner; losers get ErrAlreadyDecided.
	DecideForRole(ctx context.Context, documentID, roleID string, status common_models.DecisionStatus, approverID, note string) (*LedgerEntry, error)
}

type LedgerRepositoryImpl struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

func NewLedgerRepository(mongodb *database.MongodbDB) LedgerRepository {
	return &LedgerRepositoryImpl{
		Client:     mongodb.Client,
		Collection: mongodb.DB.Collection("approval_ledger"),
	}
}

func (r *LedgerRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "document_id", Value: 1},
			{Key: "level", Value: 1},
			{Key: "sequence_order", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *LedgerRepositoryImpl) InsertChain(ctx context.Context, documentID string, entries []LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		count, err := r.Collection.CountDocuments(sc, bson.M{"document_id": documentID})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrChainAlreadyInstantiated
		}

		now := time.Now()
		docs := make([]interface{}, 0, len(entries))
		for i := range entries {
			entries[i].ID = primitive.NewObjectID()
			entries[i].DocumentID = documentID
			entries[i].Status = common_models.DecisionPending
			entries[i].CreatedAt = now
			docs = append(docs, entries[i])
		}

		if _, err := r.Collection.InsertMany(sc, docs); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrChainAlreadyInstantiated
			}
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *LedgerRepositoryImpl) ListByDocument(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "level", Value: 1},
		{Key: "sequence_order", Value: 1},
	})
	cursor, err := r.Collection.Find(ctx, bson.M{"document_id": documentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []LedgerEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *LedgerRepositoryImpl) ListApproved(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "level", Value: 1},
		{Key: "sequence_order", Value: 1},
	})
	filter := bson.M{
		"document_id": documentID,
		"status":      common_models.DecisionApproved,
	}
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []LedgerEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *LedgerRepositoryImpl) LastDecisionByUser(ctx context.Context, documentID, approverID string) (*LedgerEntry, error) {
	filter := bson.M{
		"document_id": documentID,
		"approver_id": approverID,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "decided_at", Value: -1}})

	var entry LedgerEntry
	err := r.Collection.FindOne(ctx, filter, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *LedgerRepositoryImpl) FindByID(ctx context.Context, id string) (*LedgerEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var entry LedgerEntry
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *LedgerRepositoryImpl) ApprovedRoleIDs(ctx context.Context, documentID string) (map[string]bool, error) {
	filter := bson.M{
		"document_id": documentID,
		"status":      common_models.DecisionApproved,
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	roleIDs := make(map[string]bool)
	for cursor.Next(ctx) {
		var entry LedgerEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		roleIDs[entry.RoleID] = true
	}
	return roleIDs, cursor.Err()
}

func (r *LedgerRepositoryImpl) HasRejection(ctx context.Context, documentID string) (bool, error) {
	filter := bson.M{
		"document_id": documentID,
		"status":      common_models.DecisionRejected,
	}
	count, err := r.Collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *LedgerRepositoryImpl) DecideForRole(ctx context.Context, documentID, roleID string, status common_models.DecisionStatus, approverID, note string) (*LedgerEntry, error) {
	now := time.Now()
	filter := bson.M{
		"document_id": documentID,
		"role_id":     roleID,
		"status":      common_models.DecisionPending,
	}
	update := bson.M{"$set": bson.M{
		"status":      status,
		"approver_id": approverID,
		"note":        note,
		"decided_at":  now,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "level", Value: 1}, {Key: "sequence_order", Value: 1}}).
		SetReturnDocument(options.After)

	var entry LedgerEntry
	err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}
	return &entry, nil
}
