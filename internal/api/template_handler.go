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

// TemplateHandler holds the template service dependency.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

type TemplateRequest struct {
	Name         string   `json:"name" binding:"required"`
	ExerciseIDs  []string `json:"exerciseIds"`
	Duration     int      `json:"duration" binding:"min=0"`
	Type         string   `json:"type" binding:"omitempty,oneof=strength cardio flexibility mixed"`
	MuscleGroups []string `json:"muscleGroups"`
	Frequency    string   `json:"frequency" binding:"required,oneof=daily weekly monthly"`
}

type TemplateResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	ExerciseIDs  []string           `json:"exerciseIds"`
	Exercises    []ExerciseResponse `json:"exercises,omitempty"`
	Duration     int                `json:"duration"`
	Type         string             `json:"type,omitempty"`
	MuscleGroups []string           `json:"muscleGroups,omitempty"`
	Frequency    string             `json:"frequency"`
	IsActive     bool               `json:"isActive"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// MapTemplateToResponse converts a domain template to its response DTO.
func MapTemplateToResponse(t *domain.WorkoutTemplate) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	exerciseIDs := make([]string, len(t.ExerciseIDs))
	for i, id := range t.ExerciseIDs {
		exerciseIDs[i] = id.Hex()
	}
	return TemplateResponse{
		ID:           t.ID.Hex(),
		Name:         t.Name,
		ExerciseIDs:  exerciseIDs,
		Exercises:    MapExercisesToResponse(t.Exercises),
		Duration:     t.Duration,
		Type:         string(t.Type),
		MuscleGroups: t.MuscleGroups,
		Frequency:    string(t.Frequency),
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (r TemplateRequest) toInput() (service.TemplateInput, error) {
	exerciseIDs := make([]primitive.ObjectID, 0, len(r.ExerciseIDs))
	for _, raw := range r.ExerciseIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return service.TemplateInput{}, err
		}
		exerciseIDs = append(exerciseIDs, id)
	}
	return service.TemplateInput{
		Name:         r.Name,
		ExerciseIDs:  exerciseIDs,
		Duration:     r.Duration,
		Type:         domain.TemplateType(r.Type),
		MuscleGroups: r.MuscleGroups,
		Frequency:    domain.Frequency(r.Frequency),
	}, nil
}

// CreateTemplate handles POST /templates.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create template")
		}
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// GetTemplates handles GET /templates.
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	templates, err := h.templateService.GetTemplates(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetTemplate handles GET /templates/:id.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), templateID, userID)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve template")
		}
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// UpdateTemplate handles PUT /templates/:id.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update template")
		}
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// DeleteTemplate handles DELETE /templates/:id. Deactivates the template and
// deletes its materialized instances.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), templateID, userID); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete template")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
