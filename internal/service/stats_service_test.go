package service

import (
	"context"
	"testing"
	"time"

	"fitjournal/workout-tracker/internal/calendar"
	"fitjournal/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedInstance creates a dedicated template and one instance of it on the
// given date. A fresh template per instance keeps the unique
// (user, template, week, year) slot out of the way of test data.
func seedInstance(t *testing.T, templateRepo *fakeTemplateRepo, instanceRepo *fakeInstanceRepo, userID string, date time.Time, duration int, exercises []domain.Exercise, completed bool) {
	t.Helper()
	tmpl := &domain.WorkoutTemplate{
		UserID:    userID,
		Name:      "seeded",
		Duration:  duration,
		Frequency: domain.FrequencyWeekly,
		IsActive:  true,
		Exercises: exercises,
	}
	_, err := templateRepo.Create(context.Background(), tmpl)
	require.NoError(t, err)

	week, year := calendar.WeekOf(date)
	inst := &domain.WorkoutInstance{
		TemplateID: tmpl.ID,
		UserID:     userID,
		Date:       date,
		WeekNumber: week,
		Year:       year,
	}
	_, err = instanceRepo.Create(context.Background(), inst)
	require.NoError(t, err)

	if completed {
		require.NoError(t, instanceRepo.MarkCompleted(context.Background(), inst.ID, userID, date, "done", []domain.SetRecord{{SetNumber: 1}}))
	}
}

func TestWeeklyStats_SumsCompletedOnly(t *testing.T) {
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	svc := NewStatsService(instanceRepo)
	userID := "user-1"

	exercises := []domain.Exercise{
		{Name: "Bench Press", TotalSets: 3, Reps: 10, Weight: 50},
		{Name: "Row", TotalSets: 4, Reps: 8, Weight: 20},
	}
	now := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC) // ISO week 28

	seedInstance(t, templateRepo, instanceRepo, userID, now, 60, exercises, true)
	// Uncompleted instance in the same week contributes nothing.
	seedInstance(t, templateRepo, instanceRepo, userID, now.AddDate(0, 0, 1), 45, exercises, false)
	// Completed instance in a different week is out of scope.
	seedInstance(t, templateRepo, instanceRepo, userID, now.AddDate(0, 0, 7), 90, exercises, true)

	stats, err := svc.WeeklyStats(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, 60, stats.TotalDuration)
	assert.Equal(t, 2, stats.CompletedExercises)
	// 3*10*50 + 4*8*20
	assert.InDelta(t, 2140.0, stats.TotalWeight, 1e-9)
}

func TestWeeklyStats_EmptyWeek(t *testing.T) {
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	svc := NewStatsService(instanceRepo)

	stats, err := svc.WeeklyStats(context.Background(), "user-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, &StatsSummary{}, stats)
}

func TestMonthlyComparison_PercentDeltas(t *testing.T) {
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	svc := NewStatsService(instanceRepo)
	userID := "user-1"

	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)
	prevMonth := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)
	curMonth := time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)

	exercises := []domain.Exercise{{Name: "Squat", TotalSets: 5, Reps: 5, Weight: 100}}

	for i := 0; i < 10; i++ {
		seedInstance(t, templateRepo, instanceRepo, userID, prevMonth.Add(time.Duration(i)*time.Hour), 30, exercises, true)
	}
	for i := 0; i < 11; i++ {
		seedInstance(t, templateRepo, instanceRepo, userID, curMonth.Add(time.Duration(i)*time.Hour), 30, exercises, true)
	}

	comparison, err := svc.MonthlyComparison(context.Background(), userID, now)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, comparison.WorkoutChange, 1e-9)
	assert.InDelta(t, 10.0, comparison.DurationChange, 1e-9)
	assert.InDelta(t, 10.0, comparison.ExerciseChange, 1e-9)
}

func TestMonthlyComparison_ZeroPreviousFloorsAtZero(t *testing.T) {
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	svc := NewStatsService(instanceRepo)
	userID := "user-1"

	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)
	curMonth := time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedInstance(t, templateRepo, instanceRepo, userID, curMonth.Add(time.Duration(i)*time.Hour), 30, nil, true)
	}

	comparison, err := svc.MonthlyComparison(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Zero(t, comparison.WorkoutChange)
	assert.Zero(t, comparison.DurationChange)
	assert.Zero(t, comparison.ExerciseChange)
}

func TestMonthlyComparison_IgnoresUncompletedAndFutureDates(t *testing.T) {
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	svc := NewStatsService(instanceRepo)
	userID := "user-1"

	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)
	seedInstance(t, templateRepo, instanceRepo, userID, time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC), 30, nil, true)
	// Not completed.
	seedInstance(t, templateRepo, instanceRepo, userID, time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC), 30, nil, false)
	// Scheduled after now, completed early. Outside [start, now).
	seedInstance(t, templateRepo, instanceRepo, userID, time.Date(2024, 8, 25, 0, 0, 0, 0, time.UTC), 30, nil, true)
	// Previous month baseline of one workout.
	seedInstance(t, templateRepo, instanceRepo, userID, time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), 30, nil, true)

	comparison, err := svc.MonthlyComparison(context.Background(), userID, now)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, comparison.WorkoutChange, 1e-9)
}
