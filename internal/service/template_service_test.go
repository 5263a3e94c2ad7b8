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

func newTemplateFixture(t *testing.T) (*fakeTemplateRepo, *fakeInstanceRepo, *fakeExerciseRepo, TemplateService) {
	t.Helper()
	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo(templateRepo)
	exerciseRepo := newFakeExerciseRepo()
	svc := NewTemplateService(templateRepo, instanceRepo, exerciseRepo)
	return templateRepo, instanceRepo, exerciseRepo, svc
}

func TestCreateTemplate_ResolvesExercises(t *testing.T) {
	_, _, exerciseRepo, svc := newTemplateFixture(t)
	userID := "user-1"

	bench := &domain.Exercise{UserID: userID, Name: "Bench Press", TotalSets: 3, Reps: 10, Weight: 60}
	_, err := exerciseRepo.Create(context.Background(), bench)
	require.NoError(t, err)

	tmpl, err := svc.CreateTemplate(context.Background(), userID, TemplateInput{
		Name:        "Push Day",
		ExerciseIDs: []primitive.ObjectID{bench.ID},
		Duration:    45,
		Type:        domain.TypeStrength,
		Frequency:   domain.FrequencyWeekly,
	})
	require.NoError(t, err)
	assert.True(t, tmpl.IsActive)
	require.Len(t, tmpl.Exercises, 1)
	assert.Equal(t, "Bench Press", tmpl.Exercises[0].Name)
}

func TestCreateTemplate_Validation(t *testing.T) {
	_, _, _, svc := newTemplateFixture(t)

	cases := []struct {
		name  string
		input TemplateInput
	}{
		{"empty name", TemplateInput{Frequency: domain.FrequencyWeekly}},
		{"negative duration", TemplateInput{Name: "x", Duration: -1, Frequency: domain.FrequencyWeekly}},
		{"bad frequency", TemplateInput{Name: "x", Frequency: "fortnightly"}},
		{"missing frequency", TemplateInput{Name: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTemplate(context.Background(), "user-1", tc.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestUpdateTemplate_UnknownID(t *testing.T) {
	_, _, _, svc := newTemplateFixture(t)
	_, err := svc.UpdateTemplate(context.Background(), primitive.NewObjectID(), "user-1", TemplateInput{
		Name:      "x",
		Frequency: domain.FrequencyWeekly,
	})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDeleteTemplate_DeactivatesAndCascades(t *testing.T) {
	templateRepo, instanceRepo, _, svc := newTemplateFixture(t)
	userID := "user-1"

	tmpl, err := svc.CreateTemplate(context.Background(), userID, TemplateInput{
		Name:      "Push Day",
		Frequency: domain.FrequencyWeekly,
	})
	require.NoError(t, err)

	// Materialize two weeks, complete one of them. The cascade removes both.
	scheduleSvc := NewScheduleService(templateRepo, instanceRepo, mondayPicker)
	week1, err := scheduleSvc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	week2, err := scheduleSvc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, week1, 1)
	require.Len(t, week2, 1)

	_, err = scheduleSvc.CompleteInstance(context.Background(), week1[0].ID, userID, CompletionInput{
		Progress:    []domain.SetRecord{{SetNumber: 1, Reps: 5}},
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplate(context.Background(), tmpl.ID, userID))

	// The template survives as an inactive record.
	kept, err := svc.GetTemplate(context.Background(), tmpl.ID, userID)
	require.NoError(t, err)
	assert.False(t, kept.IsActive)

	// Both instances are gone, the completed one included.
	_, err = scheduleSvc.GetInstance(context.Background(), week1[0].ID, userID)
	assert.ErrorIs(t, err, ErrInstanceNotFound)
	_, err = scheduleSvc.GetInstance(context.Background(), week2[0].ID, userID)
	assert.ErrorIs(t, err, ErrInstanceNotFound)

	// A deactivated template no longer materializes.
	week3, err := scheduleSvc.MaterializeWeek(context.Background(), userID, time.Date(2024, 7, 24, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, week3)
}

func TestDeleteTemplate_UnknownID(t *testing.T) {
	_, _, _, svc := newTemplateFixture(t)
	err := svc.DeleteTemplate(context.Background(), primitive.NewObjectID(), "user-1")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDeleteTemplate_ForeignOwner(t *testing.T) {
	_, _, _, svc := newTemplateFixture(t)
	tmpl, err := svc.CreateTemplate(context.Background(), "user-1", TemplateInput{
		Name:      "Push Day",
		Frequency: domain.FrequencyWeekly,
	})
	require.NoError(t, err)

	err = svc.DeleteTemplate(context.Background(), tmpl.ID, "user-2")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
