package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"fitjournal/workout-tracker/internal/calendar"
	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"
	"fitjournal/workout-tracker/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInstanceNotFound  = errors.New("workout instance not found")
	ErrTemplateNotFound  = errors.New("workout template not found")
	ErrAlreadyCompleted  = errors.New("workout instance is already completed")
	ErrValidationFailed  = errors.New("validation failed")
	ErrInstanceExists    = errors.New("an instance for this template already exists in this week")
	ErrTemplateNotActive = errors.New("template is not active")
)

// DayPicker chooses the scheduled day for a freshly materialized instance.
// It receives the Monday 00:00 of the target week and must return a timestamp
// within [weekStart, weekStart+6d]. Injected so tests can pin the day.
type DayPicker func(weekStart time.Time) time.Time

// RandomDayPicker spreads new instances over the week at random.
func RandomDayPicker(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, rand.Intn(7))
}

// CompletionInput carries the payload of a completion request.
type CompletionInput struct {
	Progress    []domain.SetRecord
	CompletedAt time.Time
	Notes       string
}

// ScheduleService is the recurrence engine and completion state machine:
// it expands active templates into at-most-one instance per template per ISO
// week and drives the one-shot scheduled->completed transition.
type ScheduleService interface {
	MaterializeWeek(ctx context.Context, userID string, anchor time.Time) ([]domain.WorkoutInstance, error)
	SuggestUpcoming(ctx context.Context, userID string, now time.Time) ([]domain.WorkoutInstance, error)
	CompleteInstance(ctx context.Context, instanceID primitive.ObjectID, userID string, input CompletionInput) (*domain.WorkoutInstance, error)
	CreateInstance(ctx context.Context, userID string, templateID primitive.ObjectID, date time.Time) (*domain.WorkoutInstance, error)
	GetInstance(ctx context.Context, instanceID primitive.ObjectID, userID string) (*domain.WorkoutInstance, error)
	DeleteInstance(ctx context.Context, instanceID primitive.ObjectID, userID string) error
}

type scheduleService struct {
	templateRepo repository.TemplateRepository
	instanceRepo repository.InstanceRepository
	pickDay      DayPicker
}

// NewScheduleService creates a new schedule service. A nil pickDay falls back
// to RandomDayPicker.
func NewScheduleService(templateRepo repository.TemplateRepository, instanceRepo repository.InstanceRepository, pickDay DayPicker) ScheduleService {
	if pickDay == nil {
		pickDay = RandomDayPicker
	}
	return &scheduleService{
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		pickDay:      pickDay,
	}
}

// MaterializeWeek expands the user's active templates into instances for the
// ISO week containing anchor, skipping any (template, week, year) slot that
// already has one. Idempotent: a second call for the same week creates
// nothing and returns the same set. Concurrent callers may both pass the
// read-side skip check; the unique index arbitrates and the loser's
// duplicate inserts are absorbed by the repository.
func (s *scheduleService) MaterializeWeek(ctx context.Context, userID string, anchor time.Time) ([]domain.WorkoutInstance, error) {
	if userID == "" {
		return nil, ErrValidationFailed
	}

	week, year := calendar.WeekOf(anchor)

	templates, err := s.templateRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.instanceRepo.GetByWeek(ctx, userID, week, year)
	if err != nil {
		return nil, err
	}

	materialized := make(map[primitive.ObjectID]struct{}, len(existing))
	for i := range existing {
		materialized[existing[i].TemplateID] = struct{}{}
	}

	weekStart := calendar.StartOfWeek(anchor)
	var missing []domain.WorkoutInstance
	for i := range templates {
		if _, ok := materialized[templates[i].ID]; ok {
			continue
		}
		missing = append(missing, domain.WorkoutInstance{
			TemplateID: templates[i].ID,
			UserID:     userID,
			Date:       s.pickDay(weekStart),
			WeekNumber: week,
			Year:       year,
			Completed:  false,
			Progress:   []domain.SetRecord{},
		})
	}

	if len(missing) > 0 {
		if err := s.instanceRepo.CreateMany(ctx, missing); err != nil {
			return nil, err
		}
		logger.Log.WithFields(map[string]interface{}{
			"userId": userID,
			"week":   week,
			"year":   year,
			"count":  len(missing),
		}).Info("materialized workout instances")
	}

	// Re-read so the returned set includes pre-existing instances, anything a
	// concurrent materialization inserted, and populated templates.
	return s.instanceRepo.GetByWeek(ctx, userID, week, year)
}

// SuggestUpcoming returns the not-yet-completed instances of the current
// week, earliest scheduled date first. Materializes the week on demand, so
// this read has write side effects.
func (s *scheduleService) SuggestUpcoming(ctx context.Context, userID string, now time.Time) ([]domain.WorkoutInstance, error) {
	instances, err := s.MaterializeWeek(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	upcoming := make([]domain.WorkoutInstance, 0, len(instances))
	for i := range instances {
		if !instances[i].Completed {
			upcoming = append(upcoming, instances[i])
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if !upcoming[i].Date.Equal(upcoming[j].Date) {
			return upcoming[i].Date.Before(upcoming[j].Date)
		}
		return upcoming[i].ID.Hex() < upcoming[j].ID.Hex()
	})
	return upcoming, nil
}

// CompleteInstance transitions one instance from scheduled to completed.
// Preconditions, first failure wins: the instance exists and belongs to the
// user; it is not already completed; the progress sequence is non-empty; the
// completion timestamp is valid. A concurrent completion losing the
// conditional update reports ErrAlreadyCompleted, never a double write.
func (s *scheduleService) CompleteInstance(ctx context.Context, instanceID primitive.ObjectID, userID string, input CompletionInput) (*domain.WorkoutInstance, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}

	if instance.Completed {
		return nil, ErrAlreadyCompleted
	}
	if len(input.Progress) == 0 {
		return nil, ErrValidationFailed
	}
	if input.CompletedAt.IsZero() {
		return nil, ErrValidationFailed
	}

	notes := input.Notes
	if notes == "" {
		notes = "Workout completed"
	}

	err = s.instanceRepo.MarkCompleted(ctx, instanceID, userID, input.CompletedAt, notes, input.Progress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInstanceNotFound
		case errors.Is(err, repository.ErrUpdateFailed):
			// Lost a race against another completion of the same instance.
			return nil, ErrAlreadyCompleted
		default:
			return nil, err
		}
	}

	return s.instanceRepo.GetByID(ctx, instanceID, userID)
}

// CreateInstance is the explicit single-instance creation path, outside the
// weekly materializer. The instance lands in the ISO week of the given date.
func (s *scheduleService) CreateInstance(ctx context.Context, userID string, templateID primitive.ObjectID, date time.Time) (*domain.WorkoutInstance, error) {
	if userID == "" || templateID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}

	template, err := s.templateRepo.GetByID(ctx, templateID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !template.IsActive {
		return nil, ErrTemplateNotActive
	}

	if date.IsZero() {
		date = time.Now()
	}
	week, year := calendar.WeekOf(date)

	instance := &domain.WorkoutInstance{
		TemplateID: templateID,
		UserID:     userID,
		Date:       date,
		WeekNumber: week,
		Year:       year,
		Completed:  false,
		Progress:   []domain.SetRecord{},
	}

	id, err := s.instanceRepo.Create(ctx, instance)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInstanceExists
		}
		return nil, err
	}
	return s.instanceRepo.GetByID(ctx, id, userID)
}

// GetInstance retrieves one populated instance, scoped to its owner.
func (s *scheduleService) GetInstance(ctx context.Context, instanceID primitive.ObjectID, userID string) (*domain.WorkoutInstance, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return instance, nil
}

// DeleteInstance removes one instance, scoped to its owner.
func (s *scheduleService) DeleteInstance(ctx context.Context, instanceID primitive.ObjectID, userID string) error {
	err := s.instanceRepo.Delete(ctx, instanceID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInstanceNotFound
	}
	return err
}
