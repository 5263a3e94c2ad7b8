package service

import (
	"context"
	"errors"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseInput carries the user-editable fields of an exercise definition.
type ExerciseInput struct {
	Name        string
	MuscleGroup string
	TotalSets   int
	Reps        int
	Weight      float64
}

// ExerciseService manages the per-user exercise library.
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID string, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID, userID string) (*domain.Exercise, error)
	GetExercises(ctx context.Context, userID string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, userID string, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID, userID string) error
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new exercise service.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

func validateExerciseInput(input ExerciseInput) error {
	if input.Name == "" || input.TotalSets < 0 || input.Reps < 0 || input.Weight < 0 {
		return ErrValidationFailed
	}
	return nil
}

func (s *exerciseService) CreateExercise(ctx context.Context, userID string, input ExerciseInput) (*domain.Exercise, error) {
	if userID == "" {
		return nil, ErrValidationFailed
	}
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		UserID:      userID,
		Name:        input.Name,
		MuscleGroup: input.MuscleGroup,
		TotalSets:   input.TotalSets,
		Reps:        input.Reps,
		Weight:      input.Weight,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, id, userID)
}

func (s *exerciseService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID, userID string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) GetExercises(ctx context.Context, userID string) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetByUser(ctx, userID)
}

func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, userID string, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing.Name = input.Name
	existing.MuscleGroup = input.MuscleGroup
	existing.TotalSets = input.TotalSets
	existing.Reps = input.Reps
	existing.Weight = input.Weight

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID, userID string) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}
