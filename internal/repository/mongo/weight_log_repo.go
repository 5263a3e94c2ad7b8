package mongo

import (
	"context"
	"errors"
	"time"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const weightLogCollectionName = "weight_logs"

type mongoWeightLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightLogRepository creates a new weight-log repository.
func NewMongoWeightLogRepository(db *mongo.Database) repository.WeightLogRepository {
	return &mongoWeightLogRepository{
		collection: db.Collection(weightLogCollectionName),
	}
}

func (r *mongoWeightLogRepository) Create(ctx context.Context, w *domain.WeightLog) (primitive.ObjectID, error) {
	if w.UserID == "" {
		return primitive.NilObjectID, errors.New("weight log requires userId")
	}

	w.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Date.IsZero() {
		w.Date = now
	}

	result, err := r.collection.InsertOne(ctx, w)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted weight log ID")
	}
	return insertedID, nil
}

// GetByUser returns the user's weight entries, newest first.
func (r *mongoWeightLogRepository) GetByUser(ctx context.Context, userID string) ([]domain.WeightLog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.WeightLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoWeightLogRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeightLogIndexes creates the weight-log collection indexes.
func EnsureWeightLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
	})
	return err
}
