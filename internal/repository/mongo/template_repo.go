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

const templateCollectionName = "workout_templates"

// mongoTemplateRepository implements repository.TemplateRepository.
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new template repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// Create inserts a new workout template.
func (r *mongoTemplateRepository) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if template.UserID == "" || template.Name == "" {
		return primitive.NilObjectID, errors.New("template requires userId and name")
	}

	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a template, scoped to its owner.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	filter := bson.M{"_id": id, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetByUser retrieves every template owned by the user, active or not.
func (r *mongoTemplateRepository) GetByUser(ctx context.Context, userID string) ([]domain.WorkoutTemplate, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// GetActiveByUser retrieves the templates eligible for materialization.
func (r *mongoTemplateRepository) GetActiveByUser(ctx context.Context, userID string) ([]domain.WorkoutTemplate, error) {
	return r.find(ctx, bson.M{"userId": userID, "isActive": true})
}

func (r *mongoTemplateRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutTemplate, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.WorkoutTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update rewrites the mutable fields of a template, scoped to its owner.
func (r *mongoTemplateRepository) Update(ctx context.Context, template *domain.WorkoutTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("template ID is required for update")
	}

	filter := bson.M{"_id": template.ID, "userId": template.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":         template.Name,
			"exercises":    template.ExerciseIDs,
			"duration":     template.Duration,
			"type":         template.Type,
			"muscleGroups": template.MuscleGroups,
			"frequency":    template.Frequency,
			"isActive":     template.IsActive,
			"updatedAt":    time.Now().UTC(),
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

// Deactivate flips IsActive off without removing the record, so completed
// history keeps resolving the template's name and duration.
func (r *mongoTemplateRepository) Deactivate(ctx context.Context, id primitive.ObjectID, userID string) error {
	filter := bson.M{"_id": id, "userId": userID}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTemplateIndexes creates the indexes the template collection relies on.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// The materializer's hot path: active templates per user.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}},
		},
	})
	return err
}
