package service

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"
	"fitjournal/workout-tracker/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// fakeTemplateRepo is an in-memory TemplateRepository.
type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[primitive.ObjectID]*domain.WorkoutTemplate
	order     []primitive.ObjectID
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[primitive.ObjectID]*domain.WorkoutTemplate)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template.ID = primitive.NewObjectID()
	cp := *template
	r.templates[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return cp.ID, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID, userID string) (*domain.WorkoutTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTemplateRepo) GetByUser(_ context.Context, userID string) ([]domain.WorkoutTemplate, error) {
	return r.list(userID, false), nil
}

func (r *fakeTemplateRepo) GetActiveByUser(_ context.Context, userID string) ([]domain.WorkoutTemplate, error) {
	return r.list(userID, true), nil
}

func (r *fakeTemplateRepo) list(userID string, activeOnly bool) []domain.WorkoutTemplate {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutTemplate
	for _, id := range r.order {
		t := r.templates[id]
		if t.UserID != userID {
			continue
		}
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, *t)
	}
	return out
}

func (r *fakeTemplateRepo) Update(_ context.Context, template *domain.WorkoutTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.templates[template.ID]
	if !ok || existing.UserID != template.UserID {
		return repository.ErrNotFound
	}
	cp := *template
	r.templates[cp.ID] = &cp
	return nil
}

func (r *fakeTemplateRepo) Deactivate(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	t.IsActive = false
	return nil
}

type instanceKey struct {
	userID     string
	templateID primitive.ObjectID
	week       int
	year       int
}

// fakeInstanceRepo is an in-memory InstanceRepository enforcing the same
// (user, template, week, year) uniqueness the mongo index does. Reads attach
// templates from the paired fakeTemplateRepo, mirroring the populate step.
type fakeInstanceRepo struct {
	mu        sync.Mutex
	instances map[primitive.ObjectID]*domain.WorkoutInstance
	keys      map[instanceKey]primitive.ObjectID
	templates *fakeTemplateRepo
}

func newFakeInstanceRepo(templates *fakeTemplateRepo) *fakeInstanceRepo {
	return &fakeInstanceRepo{
		instances: make(map[primitive.ObjectID]*domain.WorkoutInstance),
		keys:      make(map[instanceKey]primitive.ObjectID),
		templates: templates,
	}
}

func keyOf(inst *domain.WorkoutInstance) instanceKey {
	return instanceKey{
		userID:     inst.UserID,
		templateID: inst.TemplateID,
		week:       inst.WeekNumber,
		year:       inst.Year,
	}
}

func (r *fakeInstanceRepo) insert(inst domain.WorkoutInstance) (primitive.ObjectID, error) {
	key := keyOf(&inst)
	if _, exists := r.keys[key]; exists {
		return primitive.NilObjectID, repository.ErrConflict
	}
	inst.ID = primitive.NewObjectID()
	r.instances[inst.ID] = &inst
	r.keys[key] = inst.ID
	return inst.ID, nil
}

func (r *fakeInstanceRepo) Create(_ context.Context, instance *domain.WorkoutInstance) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := r.insert(*instance)
	if err != nil {
		return primitive.NilObjectID, err
	}
	instance.ID = id
	return id, nil
}

func (r *fakeInstanceRepo) CreateMany(_ context.Context, instances []domain.WorkoutInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range instances {
		// Duplicate-key losers are silently skipped, as in the mongo impl.
		_, _ = r.insert(instances[i])
	}
	return nil
}

func (r *fakeInstanceRepo) populate(inst domain.WorkoutInstance) domain.WorkoutInstance {
	if r.templates != nil {
		if t, err := r.templates.GetByID(context.Background(), inst.TemplateID, inst.UserID); err == nil {
			inst.Template = t
		}
	}
	return inst
}

func (r *fakeInstanceRepo) GetByID(_ context.Context, id primitive.ObjectID, userID string) (*domain.WorkoutInstance, error) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	r.mu.Unlock()
	if !ok || inst.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := r.populate(*inst)
	return &cp, nil
}

func (r *fakeInstanceRepo) GetByWeek(_ context.Context, userID string, weekNumber, year int) ([]domain.WorkoutInstance, error) {
	r.mu.Lock()
	var out []domain.WorkoutInstance
	for _, inst := range r.instances {
		if inst.UserID == userID && inst.WeekNumber == weekNumber && inst.Year == year {
			out = append(out, *inst)
		}
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	for i := range out {
		out[i] = r.populate(out[i])
	}
	return out, nil
}

func (r *fakeInstanceRepo) GetCompletedInRange(_ context.Context, userID string, from, to time.Time) ([]domain.WorkoutInstance, error) {
	r.mu.Lock()
	var out []domain.WorkoutInstance
	for _, inst := range r.instances {
		if inst.UserID != userID || !inst.Completed {
			continue
		}
		if inst.Date.Before(from) || !inst.Date.Before(to) {
			continue
		}
		out = append(out, *inst)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	for i := range out {
		out[i] = r.populate(out[i])
	}
	return out, nil
}

func (r *fakeInstanceRepo) MarkCompleted(_ context.Context, id primitive.ObjectID, userID string, completedAt time.Time, notes string, progress []domain.SetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok || inst.UserID != userID {
		return repository.ErrNotFound
	}
	if inst.Completed {
		return repository.ErrUpdateFailed
	}
	inst.Completed = true
	inst.CompletedAt = &completedAt
	inst.Notes = notes
	inst.Progress = progress
	return nil
}

func (r *fakeInstanceRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok || inst.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.instances, id)
	delete(r.keys, keyOf(inst))
	return nil
}

func (r *fakeInstanceRepo) DeleteByTemplate(_ context.Context, templateID primitive.ObjectID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, inst := range r.instances {
		if inst.TemplateID == templateID && inst.UserID == userID {
			delete(r.instances, id)
			delete(r.keys, keyOf(inst))
			deleted++
		}
	}
	return deleted, nil
}

// fakeExerciseRepo is an in-memory ExerciseRepository.
type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
	order     []primitive.ObjectID
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	cp := *exercise
	r.exercises[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return cp.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID, userID string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeExerciseRepo) GetByUser(_ context.Context, userID string) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, id := range r.order {
		if r.exercises[id].UserID == userID {
			out = append(out, *r.exercises[id])
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, id := range ids {
		if e, ok := r.exercises[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.exercises[exercise.ID]
	if !ok || existing.UserID != exercise.UserID {
		return repository.ErrNotFound
	}
	cp := *exercise
	r.exercises[cp.ID] = &cp
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok || e.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}
