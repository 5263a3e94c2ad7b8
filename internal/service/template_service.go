package service

import (
	"context"
	"errors"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"
	"fitjournal/workout-tracker/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateInput carries the user-editable fields of a workout template.
type TemplateInput struct {
	Name         string
	ExerciseIDs  []primitive.ObjectID
	Duration     int
	Type         domain.TemplateType
	MuscleGroups []string
	Frequency    domain.Frequency
}

// TemplateService manages the template CRUD lifecycle, including the
// delete cascade over materialized instances.
type TemplateService interface {
	CreateTemplate(ctx context.Context, userID string, input TemplateInput) (*domain.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, templateID primitive.ObjectID, userID string) (*domain.WorkoutTemplate, error)
	GetTemplates(ctx context.Context, userID string) ([]domain.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, templateID primitive.ObjectID, userID string, input TemplateInput) (*domain.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, templateID primitive.ObjectID, userID string) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
	instanceRepo repository.InstanceRepository
	exerciseRepo repository.ExerciseRepository
}

// NewTemplateService creates a new template service.
func NewTemplateService(templateRepo repository.TemplateRepository, instanceRepo repository.InstanceRepository, exerciseRepo repository.ExerciseRepository) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		exerciseRepo: exerciseRepo,
	}
}

func validateTemplateInput(input TemplateInput) error {
	if input.Name == "" || input.Duration < 0 {
		return ErrValidationFailed
	}
	if !domain.ValidFrequency(input.Frequency) {
		return ErrValidationFailed
	}
	return nil
}

// CreateTemplate creates a new, active template.
func (s *templateService) CreateTemplate(ctx context.Context, userID string, input TemplateInput) (*domain.WorkoutTemplate, error) {
	if userID == "" {
		return nil, ErrValidationFailed
	}
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template := &domain.WorkoutTemplate{
		UserID:       userID,
		Name:         input.Name,
		ExerciseIDs:  input.ExerciseIDs,
		Duration:     input.Duration,
		Type:         input.Type,
		MuscleGroups: input.MuscleGroups,
		Frequency:    input.Frequency,
		IsActive:     true,
	}
	if template.ExerciseIDs == nil {
		template.ExerciseIDs = []primitive.ObjectID{}
	}

	id, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, id, userID)
}

// GetTemplate retrieves one template with its exercises resolved.
func (s *templateService) GetTemplate(ctx context.Context, templateID primitive.ObjectID, userID string) (*domain.WorkoutTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	exercises, err := s.exerciseRepo.GetByIDs(ctx, template.ExerciseIDs)
	if err != nil {
		return nil, err
	}
	template.Exercises = exercises
	return template, nil
}

// GetTemplates retrieves all of the user's templates, active or not.
func (s *templateService) GetTemplates(ctx context.Context, userID string) ([]domain.WorkoutTemplate, error) {
	return s.templateRepo.GetByUser(ctx, userID)
}

// UpdateTemplate rewrites the user-editable fields of a template.
func (s *templateService) UpdateTemplate(ctx context.Context, templateID primitive.ObjectID, userID string, input TemplateInput) (*domain.WorkoutTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.templateRepo.GetByID(ctx, templateID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	existing.Name = input.Name
	existing.ExerciseIDs = input.ExerciseIDs
	existing.Duration = input.Duration
	existing.Type = input.Type
	existing.MuscleGroups = input.MuscleGroups
	existing.Frequency = input.Frequency
	if existing.ExerciseIDs == nil {
		existing.ExerciseIDs = []primitive.ObjectID{}
	}

	if err := s.templateRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.GetTemplate(ctx, templateID, userID)
}

// DeleteTemplate deactivates a template and cascades: every instance
// materialized from it, completed ones included, is removed. The template
// document itself survives as an inactive record.
func (s *templateService) DeleteTemplate(ctx context.Context, templateID primitive.ObjectID, userID string) error {
	if err := s.templateRepo.Deactivate(ctx, templateID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}

	deleted, err := s.instanceRepo.DeleteByTemplate(ctx, templateID, userID)
	if err != nil {
		return err
	}
	logger.Log.WithFields(map[string]interface{}{
		"userId":     userID,
		"templateId": templateID.Hex(),
		"instances":  deleted,
	}).Info("template deleted with instance cascade")
	return nil
}
