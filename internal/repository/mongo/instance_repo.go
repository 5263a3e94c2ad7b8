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

const instanceCollectionName = "workout_instances"

// mongoInstanceRepository implements repository.InstanceRepository. It also
// holds the template and exercise collections because instance reads resolve
// the parent template (and its exercises) before returning.
type mongoInstanceRepository struct {
	collection *mongo.Collection
	templates  *mongo.Collection
	exercises  *mongo.Collection
}

// NewMongoInstanceRepository creates a new instance repository.
func NewMongoInstanceRepository(db *mongo.Database) repository.InstanceRepository {
	return &mongoInstanceRepository{
		collection: db.Collection(instanceCollectionName),
		templates:  db.Collection(templateCollectionName),
		exercises:  db.Collection(exerciseCollectionName),
	}
}

// Create inserts a single instance. A duplicate of the
// (user, template, week, year) key maps to repository.ErrConflict.
func (r *mongoInstanceRepository) Create(ctx context.Context, instance *domain.WorkoutInstance) (primitive.ObjectID, error) {
	if instance.UserID == "" || instance.TemplateID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("instance requires userId and templateId")
	}

	instance.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	instance.CreatedAt = now
	instance.UpdatedAt = now
	if instance.Progress == nil {
		instance.Progress = []domain.SetRecord{}
	}

	result, err := r.collection.InsertOne(ctx, instance)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted instance ID")
	}
	return insertedID, nil
}

// CreateMany inserts instances as one unordered batch. The unique index on
// (userId, templateId, weekNumber, year) is the real uniqueness guard;
// duplicate-key write errors mean a concurrent materialization already
// created that slot, so they are swallowed. Any other write error surfaces.
func (r *mongoInstanceRepository) CreateMany(ctx context.Context, instances []domain.WorkoutInstance) error {
	if len(instances) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(instances))
	for i := range instances {
		inst := instances[i]
		inst.ID = primitive.NewObjectID()
		inst.CreatedAt = now
		inst.UpdatedAt = now
		if inst.Progress == nil {
			inst.Progress = []domain.SetRecord{}
		}
		docs = append(docs, inst)
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return nil
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, we := range bwe.WriteErrors {
			if !mongo.IsDuplicateKeyError(we.WriteError) {
				return err
			}
		}
		// Every failed write lost a uniqueness race; the documents exist.
		return nil
	}
	return err
}

// GetByID retrieves a single populated instance, scoped to its owner.
func (r *mongoInstanceRepository) GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.WorkoutInstance, error) {
	var instance domain.WorkoutInstance
	filter := bson.M{"_id": id, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&instance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	instances := []domain.WorkoutInstance{instance}
	if err := r.populate(ctx, instances); err != nil {
		return nil, err
	}
	return &instances[0], nil
}

// GetByWeek retrieves the populated instances of one ISO week.
func (r *mongoInstanceRepository) GetByWeek(ctx context.Context, userID string, weekNumber, year int) ([]domain.WorkoutInstance, error) {
	filter := bson.M{"userId": userID, "weekNumber": weekNumber, "year": year}
	return r.findPopulated(ctx, filter)
}

// GetCompletedInRange retrieves the populated completed instances whose
// scheduled date falls in [from, to).
func (r *mongoInstanceRepository) GetCompletedInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.WorkoutInstance, error) {
	filter := bson.M{
		"userId":    userID,
		"completed": true,
		"date":      bson.M{"$gte": from, "$lt": to},
	}
	return r.findPopulated(ctx, filter)
}

func (r *mongoInstanceRepository) findPopulated(ctx context.Context, filter bson.M) ([]domain.WorkoutInstance, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var instances []domain.WorkoutInstance
	if err = cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	if err := r.populate(ctx, instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// populate resolves each instance's template and, transitively, the
// template's exercise documents. Two $in queries instead of per-instance
// round trips.
func (r *mongoInstanceRepository) populate(ctx context.Context, instances []domain.WorkoutInstance) error {
	if len(instances) == 0 {
		return nil
	}

	templateIDs := make([]primitive.ObjectID, 0, len(instances))
	seen := make(map[primitive.ObjectID]struct{}, len(instances))
	for i := range instances {
		if _, ok := seen[instances[i].TemplateID]; !ok {
			seen[instances[i].TemplateID] = struct{}{}
			templateIDs = append(templateIDs, instances[i].TemplateID)
		}
	}

	cursor, err := r.templates.Find(ctx, bson.M{"_id": bson.M{"$in": templateIDs}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var templates []domain.WorkoutTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return err
	}

	exerciseIDs := make([]primitive.ObjectID, 0)
	seenEx := make(map[primitive.ObjectID]struct{})
	for i := range templates {
		for _, id := range templates[i].ExerciseIDs {
			if _, ok := seenEx[id]; !ok {
				seenEx[id] = struct{}{}
				exerciseIDs = append(exerciseIDs, id)
			}
		}
	}

	exercisesByID := make(map[primitive.ObjectID]domain.Exercise)
	if len(exerciseIDs) > 0 {
		exCursor, err := r.exercises.Find(ctx, bson.M{"_id": bson.M{"$in": exerciseIDs}})
		if err != nil {
			return err
		}
		defer exCursor.Close(ctx)

		var exercises []domain.Exercise
		if err = exCursor.All(ctx, &exercises); err != nil {
			return err
		}
		for _, ex := range exercises {
			exercisesByID[ex.ID] = ex
		}
	}

	templatesByID := make(map[primitive.ObjectID]*domain.WorkoutTemplate, len(templates))
	for i := range templates {
		tmpl := &templates[i]
		tmpl.Exercises = make([]domain.Exercise, 0, len(tmpl.ExerciseIDs))
		for _, id := range tmpl.ExerciseIDs {
			if ex, ok := exercisesByID[id]; ok {
				tmpl.Exercises = append(tmpl.Exercises, ex)
			}
		}
		templatesByID[tmpl.ID] = tmpl
	}

	for i := range instances {
		instances[i].Template = templatesByID[instances[i].TemplateID]
	}
	return nil
}

// MarkCompleted performs the one-shot scheduled->completed transition. The
// completed=false guard in the filter makes concurrent completions resolve
// to exactly one winner.
func (r *mongoInstanceRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, userID string, completedAt time.Time, notes string, progress []domain.SetRecord) error {
	filter := bson.M{"_id": id, "userId": userID, "completed": false}
	update := bson.M{
		"$set": bson.M{
			"completed":   true,
			"completedAt": completedAt,
			"notes":       notes,
			"progress":    progress,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the instance does not exist (or is foreign), or it exists
		// but is already completed. Distinguish so the service can report
		// NotFound vs AlreadyCompleted.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id, "userId": userID})
		if err != nil {
			return err
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

// Delete removes a single instance, scoped to its owner.
func (r *mongoInstanceRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByTemplate removes every instance generated from a template.
func (r *mongoInstanceRepository) DeleteByTemplate(ctx context.Context, templateID primitive.ObjectID, userID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"templateId": templateID, "userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureInstanceIndexes creates the instance indexes. The unique compound
// index is the authoritative at-most-one-instance-per-week guard; the
// engine's read-before-write check is only an optimization.
func EnsureInstanceIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "templateId", Value: 1},
				{Key: "weekNumber", Value: 1},
				{Key: "year", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			// Stats range scans by scheduled date.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completed", Value: 1}, {Key: "date", Value: 1}},
		},
	})
	return err
}
