package service

import (
	"context"
	"errors"
	"time"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrWeightLogNotFound   = errors.New("weight log entry not found")
)

// MeasurementInput carries the editable fields of a measurement entry.
type MeasurementInput struct {
	Date       time.Time
	Chest      float64
	Waist      float64
	Hips       float64
	LeftArm    float64
	RightArm   float64
	LeftThigh  float64
	RightThigh float64
	LeftCalf   float64
	RightCalf  float64
}

// MeasurementService manages body measurements and the weight log.
type MeasurementService interface {
	CreateMeasurement(ctx context.Context, userID string, input MeasurementInput) (*domain.Measurement, error)
	GetMeasurement(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Measurement, error)
	GetMeasurements(ctx context.Context, userID string) ([]domain.Measurement, error)
	UpdateMeasurement(ctx context.Context, id primitive.ObjectID, userID string, input MeasurementInput) (*domain.Measurement, error)
	DeleteMeasurement(ctx context.Context, id primitive.ObjectID, userID string) error

	LogWeight(ctx context.Context, userID string, date time.Time, weight float64) (*domain.WeightLog, error)
	GetWeightLogs(ctx context.Context, userID string) ([]domain.WeightLog, error)
	DeleteWeightLog(ctx context.Context, id primitive.ObjectID, userID string) error
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	weightLogRepo   repository.WeightLogRepository
}

// NewMeasurementService creates a new measurement service.
func NewMeasurementService(measurementRepo repository.MeasurementRepository, weightLogRepo repository.WeightLogRepository) MeasurementService {
	return &measurementService{
		measurementRepo: measurementRepo,
		weightLogRepo:   weightLogRepo,
	}
}

func applyMeasurementInput(m *domain.Measurement, input MeasurementInput) {
	m.Date = input.Date
	m.Chest = input.Chest
	m.Waist = input.Waist
	m.Hips = input.Hips
	m.LeftArm = input.LeftArm
	m.RightArm = input.RightArm
	m.LeftThigh = input.LeftThigh
	m.RightThigh = input.RightThigh
	m.LeftCalf = input.LeftCalf
	m.RightCalf = input.RightCalf
}

func (s *measurementService) CreateMeasurement(ctx context.Context, userID string, input MeasurementInput) (*domain.Measurement, error) {
	if userID == "" {
		return nil, ErrValidationFailed
	}

	m := &domain.Measurement{UserID: userID}
	applyMeasurementInput(m, input)

	if _, err := s.measurementRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *measurementService) GetMeasurement(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Measurement, error) {
	m, err := s.measurementRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *measurementService) GetMeasurements(ctx context.Context, userID string) ([]domain.Measurement, error) {
	return s.measurementRepo.GetByUser(ctx, userID)
}

func (s *measurementService) UpdateMeasurement(ctx context.Context, id primitive.ObjectID, userID string, input MeasurementInput) (*domain.Measurement, error) {
	existing, err := s.measurementRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}

	applyMeasurementInput(existing, input)
	if existing.Date.IsZero() {
		existing.Date = time.Now().UTC()
	}

	if err := s.measurementRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *measurementService) DeleteMeasurement(ctx context.Context, id primitive.ObjectID, userID string) error {
	err := s.measurementRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMeasurementNotFound
	}
	return err
}

func (s *measurementService) LogWeight(ctx context.Context, userID string, date time.Time, weight float64) (*domain.WeightLog, error) {
	if userID == "" || weight <= 0 {
		return nil, ErrValidationFailed
	}

	w := &domain.WeightLog{
		UserID: userID,
		Date:   date,
		Weight: weight,
	}
	if _, err := s.weightLogRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *measurementService) GetWeightLogs(ctx context.Context, userID string) ([]domain.WeightLog, error) {
	return s.weightLogRepo.GetByUser(ctx, userID)
}

func (s *measurementService) DeleteWeightLog(ctx context.Context, id primitive.ObjectID, userID string) error {
	err := s.weightLogRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWeightLogNotFound
	}
	return err
}
