package repository

import (
	"context"
	"time"

	"fitjournal/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict signals a uniqueness violation, e.g. a second instance for
	// the same (user, template, week, year) or a duplicate account email.
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors from storage-driver ones.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository manages account records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository manages the per-user exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Exercise, error)
	GetByUser(ctx context.Context, userID string) ([]domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

// TemplateRepository manages workout templates. All lookups are scoped by
// owner so a missing document and a foreign document are indistinguishable.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.WorkoutTemplate, error)
	GetByUser(ctx context.Context, userID string) ([]domain.WorkoutTemplate, error)
	GetActiveByUser(ctx context.Context, userID string) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	// Deactivate flips IsActive off; the template record itself is kept so
	// completed history can still resolve its name and duration.
	Deactivate(ctx context.Context, id primitive.ObjectID, userID string) error
}

// InstanceRepository manages scheduled workout occurrences. Read methods
// return instances with Template populated (and the template's exercises
// resolved); callers never perform cross-collection joins themselves.
type InstanceRepository interface {
	Create(ctx context.Context, instance *domain.WorkoutInstance) (primitive.ObjectID, error)
	// CreateMany inserts the given instances as one unordered batch.
	// Duplicate-key violations of the (user, template, week, year) unique
	// index are swallowed: a concurrent materialization winning the race is
	// not an error. Any other write error is returned.
	CreateMany(ctx context.Context, instances []domain.WorkoutInstance) error
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.WorkoutInstance, error)
	GetByWeek(ctx context.Context, userID string, weekNumber, year int) ([]domain.WorkoutInstance, error)
	GetCompletedInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.WorkoutInstance, error)
	// MarkCompleted performs the one-shot scheduled->completed transition as
	// a conditional update guarded by completed=false. Returns ErrNotFound
	// when no document matches the id+owner, ErrUpdateFailed when the
	// document exists but was already completed.
	MarkCompleted(ctx context.Context, id primitive.ObjectID, userID string, completedAt time.Time, notes string, progress []domain.SetRecord) error
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
	// DeleteByTemplate removes every instance materialized from the given
	// template. Used by the template-delete cascade.
	DeleteByTemplate(ctx context.Context, templateID primitive.ObjectID, userID string) (int64, error)
}

// MeasurementRepository manages body-measurement entries.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Measurement, error)
	GetByUser(ctx context.Context, userID string) ([]domain.Measurement, error)
	Update(ctx context.Context, m *domain.Measurement) error
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

// WeightLogRepository manages body-weight entries.
type WeightLogRepository interface {
	Create(ctx context.Context, w *domain.WeightLog) (primitive.ObjectID, error)
	GetByUser(ctx context.Context, userID string) ([]domain.WeightLog, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

// ProgressImageRepository manages progress-photo metadata.
type ProgressImageRepository interface {
	Create(ctx context.Context, img *domain.ProgressImage) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.ProgressImage, error)
	GetByUser(ctx context.Context, userID string) ([]domain.ProgressImage, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}
