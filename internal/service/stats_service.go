package service

import (
	"context"
	"time"

	"fitjournal/workout-tracker/internal/calendar"
	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"
)

// StatsSummary aggregates one ISO week of completed workouts.
type StatsSummary struct {
	TotalWorkouts      int     `json:"totalWorkouts"`
	TotalDuration      int     `json:"totalDuration"` // Minutes
	CompletedExercises int     `json:"completedExercises"`
	TotalWeight        float64 `json:"totalWeight"` // Σ weight·reps·sets, kg
}

// ComparisonSummary holds month-over-month percentage deltas.
type ComparisonSummary struct {
	WorkoutChange  float64 `json:"workoutChange"`
	DurationChange float64 `json:"durationChange"`
	ExerciseChange float64 `json:"exerciseChange"`
}

// StatsService computes read-only aggregates over completed instances.
type StatsService interface {
	WeeklyStats(ctx context.Context, userID string, now time.Time) (*StatsSummary, error)
	MonthlyComparison(ctx context.Context, userID string, now time.Time) (*ComparisonSummary, error)
}

type statsService struct {
	instanceRepo repository.InstanceRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(instanceRepo repository.InstanceRepository) StatsService {
	return &statsService{instanceRepo: instanceRepo}
}

// WeeklyStats sums the completed instances of now's ISO week: workout count,
// template duration, exercise count, and lifted volume
// (weight·reps·totalSets across each completed template's exercises).
// Uncompleted instances contribute nothing, including to TotalWorkouts.
func (s *statsService) WeeklyStats(ctx context.Context, userID string, now time.Time) (*StatsSummary, error) {
	week, year := calendar.WeekOf(now)

	instances, err := s.instanceRepo.GetByWeek(ctx, userID, week, year)
	if err != nil {
		return nil, err
	}

	stats := &StatsSummary{}
	for i := range instances {
		if !instances[i].Completed || instances[i].Template == nil {
			continue
		}
		tmpl := instances[i].Template
		stats.TotalWorkouts++
		stats.TotalDuration += tmpl.Duration
		stats.CompletedExercises += len(tmpl.Exercises)
		for _, ex := range tmpl.Exercises {
			stats.TotalWeight += ex.Weight * float64(ex.Reps) * float64(ex.TotalSets)
		}
	}
	return stats, nil
}

type monthTotals struct {
	workouts  int
	duration  int
	exercises int
}

// MonthlyComparison compares [startOfMonth, now) against the whole previous
// month over completed instances and reports percentage deltas. A previous
// total of zero floors the delta at 0 rather than reporting an infinite
// increase.
func (s *statsService) MonthlyComparison(ctx context.Context, userID string, now time.Time) (*ComparisonSummary, error) {
	currentStart := calendar.StartOfMonth(now)
	previousStart := calendar.StartOfPreviousMonth(now)

	current, err := s.instanceRepo.GetCompletedInRange(ctx, userID, currentStart, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.instanceRepo.GetCompletedInRange(ctx, userID, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	cur := totalsOf(current)
	prev := totalsOf(previous)

	return &ComparisonSummary{
		WorkoutChange:  percentChange(cur.workouts, prev.workouts),
		DurationChange: percentChange(cur.duration, prev.duration),
		ExerciseChange: percentChange(cur.exercises, prev.exercises),
	}, nil
}

func totalsOf(instances []domain.WorkoutInstance) monthTotals {
	var t monthTotals
	for i := range instances {
		t.workouts++
		if tmpl := instances[i].Template; tmpl != nil {
			t.duration += tmpl.Duration
			t.exercises += len(tmpl.Exercises)
		}
	}
	return t
}

func percentChange(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
