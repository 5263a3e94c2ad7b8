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

const measurementCollectionName = "measurements"

type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a new measurement repository.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error) {
	if m.UserID == "" {
		return primitive.NilObjectID, errors.New("measurement requires userId")
	}

	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Date.IsZero() {
		m.Date = now
	}

	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted measurement ID")
	}
	return insertedID, nil
}

func (r *mongoMeasurementRepository) GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Measurement, error) {
	var m domain.Measurement
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByUser returns the user's measurements, newest first.
func (r *mongoMeasurementRepository) GetByUser(ctx context.Context, userID string) ([]domain.Measurement, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var measurements []domain.Measurement
	if err = cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	return measurements, nil
}

func (r *mongoMeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	if m.ID == primitive.NilObjectID {
		return errors.New("measurement ID is required for update")
	}

	filter := bson.M{"_id": m.ID, "userId": m.UserID}
	update := bson.M{
		"$set": bson.M{
			"date":       m.Date,
			"chest":      m.Chest,
			"waist":      m.Waist,
			"hips":       m.Hips,
			"leftArm":    m.LeftArm,
			"rightArm":   m.RightArm,
			"leftThigh":  m.LeftThigh,
			"rightThigh": m.RightThigh,
			"leftCalf":   m.LeftCalf,
			"rightCalf":  m.RightCalf,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMeasurementRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMeasurementIndexes creates the measurement collection indexes.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
	})
	return err
}
