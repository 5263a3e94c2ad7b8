package api

import (
	"errors"
	"net/http"
	"time"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler exposes the scheduled-workout endpoints: weekly
// materialization, suggestions, completion and the single-instance CRUD.
type WorkoutHandler struct {
	scheduleService service.ScheduleService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(scheduleService service.ScheduleService) *WorkoutHandler {
	return &WorkoutHandler{scheduleService: scheduleService}
}

type SetRecordPayload struct {
	SetNumber int     `json:"setNumber" binding:"required,min=1"`
	Reps      int     `json:"reps" binding:"min=0"`
	Weight    float64 `json:"weight" binding:"min=0"`
	Completed bool    `json:"completed"`
}

type CompleteWorkoutRequest struct {
	// Progress must be a JSON array; an object is a binding error.
	Progress    []SetRecordPayload `json:"progress" binding:"required"`
	CompletedAt string             `json:"completedAt" binding:"required"`
	Notes       string             `json:"notes"`
}

type CreateWorkoutRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
	Date       string `json:"date"` // RFC 3339; defaults to now
}

type WorkoutInstanceResponse struct {
	ID          string             `json:"id"`
	TemplateID  string             `json:"templateId"`
	Template    *TemplateResponse  `json:"template,omitempty"`
	Date        time.Time          `json:"date"`
	WeekNumber  int                `json:"weekNumber"`
	Year        int                `json:"year"`
	Completed   bool               `json:"completed"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Progress    []domain.SetRecord `json:"progress"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// MapInstanceToResponse converts a domain instance to its response DTO.
func MapInstanceToResponse(inst *domain.WorkoutInstance) WorkoutInstanceResponse {
	if inst == nil {
		return WorkoutInstanceResponse{}
	}
	resp := WorkoutInstanceResponse{
		ID:          inst.ID.Hex(),
		TemplateID:  inst.TemplateID.Hex(),
		Date:        inst.Date,
		WeekNumber:  inst.WeekNumber,
		Year:        inst.Year,
		Completed:   inst.Completed,
		CompletedAt: inst.CompletedAt,
		Notes:       inst.Notes,
		Progress:    inst.Progress,
		CreatedAt:   inst.CreatedAt,
	}
	if resp.Progress == nil {
		resp.Progress = []domain.SetRecord{}
	}
	if inst.Template != nil {
		tmpl := MapTemplateToResponse(inst.Template)
		resp.Template = &tmpl
	}
	return resp
}

// MapInstancesToResponse converts a slice of instances to response DTOs.
func MapInstancesToResponse(instances []domain.WorkoutInstance) []WorkoutInstanceResponse {
	responses := make([]WorkoutInstanceResponse, len(instances))
	for i := range instances {
		responses[i] = MapInstanceToResponse(&instances[i])
	}
	return responses
}

// GetCurrentWeek handles GET /workouts/current-week. Materializes the week
// before returning it, so the first read of a week creates its instances.
func (h *WorkoutHandler) GetCurrentWeek(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	instances, err := h.scheduleService.MaterializeWeek(c.Request.Context(), userID, time.Now())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load current week")
		return
	}
	c.JSON(http.StatusOK, MapInstancesToResponse(instances))
}

// GetSuggested handles GET /workouts/suggested: the uncompleted instances of
// the current week, earliest first.
func (h *WorkoutHandler) GetSuggested(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	instances, err := h.scheduleService.SuggestUpcoming(c.Request.Context(), userID, time.Now())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load suggestions")
		return
	}
	c.JSON(http.StatusOK, MapInstancesToResponse(instances))
}

// CreateWorkout handles POST /workouts: explicit single-instance creation.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date: must be RFC 3339")
			return
		}
	}

	instance, err := h.scheduleService.CreateInstance(c.Request.Context(), userID, templateID, date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTemplateNotActive), errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInstanceExists):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		}
		return
	}
	c.JSON(http.StatusCreated, MapInstanceToResponse(instance))
}

// GetWorkout handles GET /workouts/:id.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	instanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	instance, err := h.scheduleService.GetInstance(c.Request.Context(), instanceID, userID)
	if err != nil {
		if errors.Is(err, service.ErrInstanceNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout")
		}
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(instance))
}

// CompleteWorkout handles POST /workouts/:id/complete: the one-shot
// scheduled->completed transition.
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	instanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	completedAt, err := time.Parse(time.RFC3339, req.CompletedAt)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completedAt: must be RFC 3339")
		return
	}

	progress := make([]domain.SetRecord, len(req.Progress))
	for i, p := range req.Progress {
		progress[i] = domain.SetRecord{
			SetNumber: p.SetNumber,
			Reps:      p.Reps,
			Weight:    p.Weight,
			Completed: p.Completed,
		}
	}

	instance, err := h.scheduleService.CompleteInstance(c.Request.Context(), instanceID, userID, service.CompletionInput{
		Progress:    progress,
		CompletedAt: completedAt,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstanceNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyCompleted):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to complete workout")
		}
		return
	}
	c.JSON(http.StatusOK, MapInstanceToResponse(instance))
}

// DeleteWorkout handles DELETE /workouts/:id.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	instanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	if err := h.scheduleService.DeleteInstance(c.Request.Context(), instanceID, userID); err != nil {
		if errors.Is(err, service.ErrInstanceNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
