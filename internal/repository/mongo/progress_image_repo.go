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

const progressImageCollectionName = "progress_images"

type mongoProgressImageRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressImageRepository creates a new progress-image repository.
func NewMongoProgressImageRepository(db *mongo.Database) repository.ProgressImageRepository {
	return &mongoProgressImageRepository{
		collection: db.Collection(progressImageCollectionName),
	}
}

func (r *mongoProgressImageRepository) Create(ctx context.Context, img *domain.ProgressImage) (primitive.ObjectID, error) {
	if img.UserID == "" || img.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("progress image requires userId and objectKey")
	}

	img.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	img.CreatedAt = now
	if img.Date.IsZero() {
		img.Date = now
	}

	result, err := r.collection.InsertOne(ctx, img)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted image ID")
	}
	return insertedID, nil
}

func (r *mongoProgressImageRepository) GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.ProgressImage, error) {
	var img domain.ProgressImage
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&img)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// GetByUser returns the user's progress photos, newest first.
func (r *mongoProgressImageRepository) GetByUser(ctx context.Context, userID string) ([]domain.ProgressImage, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []domain.ProgressImage
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *mongoProgressImageRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressImageIndexes creates the progress-image collection indexes.
func EnsureProgressImageIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
	})
	return err
}
