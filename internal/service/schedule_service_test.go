package service

import (
	"context"
	"testing"
	"time"

	"fitjournal/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mondayPicker pins every materialized instance to the week's Monday so
// assertions on dates are deterministic.
func mondayPicker(weekStart time.Time) time.Time {
	return weekStart
}

func newScheduleFixture(t *testing.T) (*fakeTemplateRepo, *fakeInstanceRepo, ScheduleService) {
	t.Helper()
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	svc := NewScheduleService(templateRepo, instanceRepo, mondayPicker)
	return templateRepo, instanceRepo, svc
}

func addTemplate(t *testing.T, repo *fakeTemplateRepo, userID, name string, active bool) *domain.WorkoutTemplate {
	t.Helper()
	tmpl := &domain.WorkoutTemplate{
		UserID:    userID,
		Name:      name,
		Duration:  45,
		Frequency: domain.FrequencyWeekly,
		IsActive:  active,
	}
	_, err := repo.Create(context.Background(), tmpl)
	require.NoError(t, err)
	return tmpl
}

func TestMaterializeWeek_CreatesOneInstancePerActiveTemplate(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)
	addTemplate(t, templateRepo, userID, "Pull Day", true)
	addTemplate(t, templateRepo, userID, "Old Plan", false)

	// Wednesday, July 10 2024: ISO week 28.
	anchor := time.Date(2024, 7, 10, 15, 30, 0, 0, time.UTC)
	instances, err := svc.MaterializeWeek(context.Background(), userID, anchor)
	require.NoError(t, err)
	require.Len(t, instances, 2, "inactive templates must not materialize")

	weekStart := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	for _, inst := range instances {
		assert.Equal(t, 28, inst.WeekNumber)
		assert.Equal(t, 2024, inst.Year)
		assert.Equal(t, weekStart, inst.Date)
		assert.False(t, inst.Completed)
		assert.NotNil(t, inst.Template)
	}
}

func TestMaterializeWeek_Idempotent(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)
	anchor := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

	first, err := svc.MaterializeWeek(context.Background(), userID, anchor)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Same week, different weekday and time of day.
	second, err := svc.MaterializeWeek(context.Background(), userID, anchor.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestMaterializeWeek_DifferentWeeksGetSeparateInstances(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)

	week28, err := svc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	week29, err := svc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, week28, 1)
	require.Len(t, week29, 1)
	assert.NotEqual(t, week28[0].ID, week29[0].ID)
	assert.Equal(t, 29, week29[0].WeekNumber)
}

func TestMaterializeWeek_TemplateAddedMidWeek(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)
	anchor := time.Date(2024, 7, 8, 9, 0, 0, 0, time.UTC)

	first, err := svc.MaterializeWeek(context.Background(), userID, anchor)
	require.NoError(t, err)
	require.Len(t, first, 1)

	addTemplate(t, templateRepo, userID, "Leg Day", true)

	second, err := svc.MaterializeWeek(context.Background(), userID, anchor.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, second, 2, "the new template fills its empty slot without duplicating the existing one")
}

func TestMaterializeWeek_SurvivesConcurrentDuplicateInsert(t *testing.T) {
	templateRepo, instanceRepo, svc := newScheduleFixture(t)
	userID := "user-1"
	tmpl := addTemplate(t, templateRepo, userID, "Push Day", true)
	anchor := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	// Simulate a concurrent materializer winning the race after this call's
	// read-side skip check would have passed: the slot is already taken when
	// CreateMany runs, and the duplicate insert must be absorbed.
	err := instanceRepo.CreateMany(context.Background(), []domain.WorkoutInstance{{
		TemplateID: tmpl.ID,
		UserID:     userID,
		Date:       anchor,
		WeekNumber: 28,
		Year:       2024,
	}})
	require.NoError(t, err)

	instances, err := svc.MaterializeWeek(context.Background(), userID, anchor)
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestMaterializeWeek_EmptyUserID(t *testing.T) {
	_, _, svc := newScheduleFixture(t)
	_, err := svc.MaterializeWeek(context.Background(), "", time.Now())
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestMaterializeWeek_ScopedToUser(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	addTemplate(t, templateRepo, "user-1", "Push Day", true)
	addTemplate(t, templateRepo, "user-2", "Other Plan", true)
	anchor := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	instances, err := svc.MaterializeWeek(context.Background(), "user-1", anchor)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "user-1", instances[0].UserID)
}

func TestSuggestUpcoming_ExcludesCompletedAndSortsByDate(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)
	addTemplate(t, templateRepo, userID, "Pull Day", true)
	addTemplate(t, templateRepo, userID, "Leg Day", true)
	anchor := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	instances, err := svc.MaterializeWeek(context.Background(), userID, anchor)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	// Complete one of the three.
	done, err := svc.CompleteInstance(context.Background(), instances[1].ID, userID, CompletionInput{
		Progress:    []domain.SetRecord{{SetNumber: 1, Reps: 10, Weight: 60, Completed: true}},
		CompletedAt: anchor,
	})
	require.NoError(t, err)
	require.True(t, done.Completed)

	upcoming, err := svc.SuggestUpcoming(context.Background(), userID, anchor)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	for _, inst := range upcoming {
		assert.False(t, inst.Completed)
		assert.NotEqual(t, instances[1].ID, inst.ID)
	}
	assert.False(t, upcoming[1].Date.Before(upcoming[0].Date))
}

func TestSuggestUpcoming_MaterializesOnDemand(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)

	upcoming, err := svc.SuggestUpcoming(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, upcoming, 1, "suggestions for an unmaterialized week create the instances first")
}

func TestCompleteInstance_SetsCompletionFields(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)
	anchor := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	instances, err := svc.MaterializeWeek(context.Background(), userID, anchor)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	completedAt := time.Date(2024, 7, 10, 18, 45, 0, 0, time.UTC)
	progress := []domain.SetRecord{
		{SetNumber: 1, Reps: 10, Weight: 60, Completed: true},
		{SetNumber: 2, Reps: 8, Weight: 65, Completed: true},
	}
	inst, err := svc.CompleteInstance(context.Background(), instances[0].ID, userID, CompletionInput{
		Progress:    progress,
		CompletedAt: completedAt,
		Notes:       "felt strong",
	})
	require.NoError(t, err)
	assert.True(t, inst.Completed)
	require.NotNil(t, inst.CompletedAt)
	assert.Equal(t, completedAt, *inst.CompletedAt)
	assert.Equal(t, "felt strong", inst.Notes)
	assert.Equal(t, progress, inst.Progress)
}

func TestCompleteInstance_DefaultNotes(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)

	instances, err := svc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	inst, err := svc.CompleteInstance(context.Background(), instances[0].ID, userID, CompletionInput{
		Progress:    []domain.SetRecord{{SetNumber: 1, Reps: 5}},
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Workout completed", inst.Notes)
}

func TestCompleteInstance_AlreadyCompleted(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)

	instances, err := svc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	input := CompletionInput{
		Progress:    []domain.SetRecord{{SetNumber: 1, Reps: 5}},
		CompletedAt: time.Now(),
	}
	_, err = svc.CompleteInstance(context.Background(), instances[0].ID, userID, input)
	require.NoError(t, err)

	_, err = svc.CompleteInstance(context.Background(), instances[0].ID, userID, input)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteInstance_PreconditionOrder(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)

	instances, err := svc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	instID := instances[0].ID

	// Unknown instance with invalid input: existence is checked first.
	_, err = svc.CompleteInstance(context.Background(), primitive.NewObjectID(), userID, CompletionInput{})
	assert.ErrorIs(t, err, ErrInstanceNotFound)

	// Existing but invalid input: empty progress.
	_, err = svc.CompleteInstance(context.Background(), instID, userID, CompletionInput{CompletedAt: time.Now()})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Existing but invalid input: zero timestamp.
	_, err = svc.CompleteInstance(context.Background(), instID, userID, CompletionInput{
		Progress: []domain.SetRecord{{SetNumber: 1}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Complete it, then resubmit invalid input: already-completed wins over
	// validation.
	_, err = svc.CompleteInstance(context.Background(), instID, userID, CompletionInput{
		Progress:    []domain.SetRecord{{SetNumber: 1, Reps: 5}},
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.CompleteInstance(context.Background(), instID, userID, CompletionInput{})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteInstance_ForeignInstanceIsNotFound(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	addTemplate(t, templateRepo, "user-1", "Push Day", true)

	instances, err := svc.MaterializeWeek(context.Background(), "user-1", time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = svc.CompleteInstance(context.Background(), instances[0].ID, "user-2", CompletionInput{
		Progress:    []domain.SetRecord{{SetNumber: 1}},
		CompletedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestCreateInstance_DuplicateSlotConflicts(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	tmpl := addTemplate(t, templateRepo, userID, "Push Day", true)
	date := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	first, err := svc.CreateInstance(context.Background(), userID, tmpl.ID, date)
	require.NoError(t, err)
	assert.Equal(t, 28, first.WeekNumber)
	assert.Equal(t, 2024, first.Year)

	// Same template, same ISO week, different day.
	_, err = svc.CreateInstance(context.Background(), userID, tmpl.ID, date.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, ErrInstanceExists)

	// Next week is a fresh slot.
	_, err = svc.CreateInstance(context.Background(), userID, tmpl.ID, date.AddDate(0, 0, 7))
	assert.NoError(t, err)
}

func TestCreateInstance_InactiveTemplate(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	tmpl := addTemplate(t, templateRepo, userID, "Old Plan", false)

	_, err := svc.CreateInstance(context.Background(), userID, tmpl.ID, time.Now())
	assert.ErrorIs(t, err, ErrTemplateNotActive)
}

func TestCreateInstance_UnknownTemplate(t *testing.T) {
	_, _, svc := newScheduleFixture(t)
	_, err := svc.CreateInstance(context.Background(), "user-1", primitive.NewObjectID(), time.Now())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDeleteInstance(t *testing.T) {
	templateRepo, _, svc := newScheduleFixture(t)
	userID := "user-1"
	addTemplate(t, templateRepo, userID, "Push Day", true)

	instances, err := svc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInstance(context.Background(), instances[0].ID, userID))
	err = svc.DeleteInstance(context.Background(), instances[0].ID, userID)
	assert.ErrorIs(t, err, ErrInstanceNotFound)

	_, err = svc.GetInstance(context.Background(), instances[0].ID, userID)
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestRandomDayPicker_StaysWithinWeek(t *testing.T) {
	weekStart := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		day := RandomDayPicker(weekStart)
		assert.False(t, day.Before(weekStart))
		assert.True(t, day.Before(weekStart.AddDate(0, 0, 7)))
	}
}
