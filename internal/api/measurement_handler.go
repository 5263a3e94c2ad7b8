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

// MeasurementHandler serves body measurements and the weight log.
type MeasurementHandler struct {
	measurementService service.MeasurementService
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

type MeasurementRequest struct {
	Date       time.Time `json:"date"`
	Chest      float64   `json:"chest" binding:"min=0"`
	Waist      float64   `json:"waist" binding:"min=0"`
	Hips       float64   `json:"hips" binding:"min=0"`
	LeftArm    float64   `json:"leftArm" binding:"min=0"`
	RightArm   float64   `json:"rightArm" binding:"min=0"`
	LeftThigh  float64   `json:"leftThigh" binding:"min=0"`
	RightThigh float64   `json:"rightThigh" binding:"min=0"`
	LeftCalf   float64   `json:"leftCalf" binding:"min=0"`
	RightCalf  float64   `json:"rightCalf" binding:"min=0"`
}

type MeasurementResponse struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Chest      float64   `json:"chest"`
	Waist      float64   `json:"waist"`
	Hips       float64   `json:"hips"`
	LeftArm    float64   `json:"leftArm"`
	RightArm   float64   `json:"rightArm"`
	LeftThigh  float64   `json:"leftThigh"`
	RightThigh float64   `json:"rightThigh"`
	LeftCalf   float64   `json:"leftCalf"`
	RightCalf  float64   `json:"rightCalf"`
	CreatedAt  time.Time `json:"createdAt"`
}

type WeightLogRequest struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight" binding:"required,gt=0"`
}

type WeightLogResponse struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapMeasurementToResponse converts a domain measurement to its response DTO.
func MapMeasurementToResponse(m *domain.Measurement) MeasurementResponse {
	if m == nil {
		return MeasurementResponse{}
	}
	return MeasurementResponse{
		ID:         m.ID.Hex(),
		Date:       m.Date,
		Chest:      m.Chest,
		Waist:      m.Waist,
		Hips:       m.Hips,
		LeftArm:    m.LeftArm,
		RightArm:   m.RightArm,
		LeftThigh:  m.LeftThigh,
		RightThigh: m.RightThigh,
		LeftCalf:   m.LeftCalf,
		RightCalf:  m.RightCalf,
		CreatedAt:  m.CreatedAt,
	}
}

// MapWeightLogToResponse converts a domain weight log entry to its response DTO.
func MapWeightLogToResponse(w *domain.WeightLog) WeightLogResponse {
	if w == nil {
		return WeightLogResponse{}
	}
	return WeightLogResponse{
		ID:        w.ID.Hex(),
		Date:      w.Date,
		Weight:    w.Weight,
		CreatedAt: w.CreatedAt,
	}
}

func (r MeasurementRequest) toInput() service.MeasurementInput {
	date := r.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return service.MeasurementInput{
		Date:       date,
		Chest:      r.Chest,
		Waist:      r.Waist,
		Hips:       r.Hips,
		LeftArm:    r.LeftArm,
		RightArm:   r.RightArm,
		LeftThigh:  r.LeftThigh,
		RightThigh: r.RightThigh,
		LeftCalf:   r.LeftCalf,
		RightCalf:  r.RightCalf,
	}
}

// CreateMeasurement handles POST /measurements.
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	m, err := h.measurementService.CreateMeasurement(c.Request.Context(), userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create measurement")
		}
		return
	}
	c.JSON(http.StatusCreated, MapMeasurementToResponse(m))
}

// GetMeasurements handles GET /measurements.
func (h *MeasurementHandler) GetMeasurements(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	measurements, err := h.measurementService.GetMeasurements(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve measurements")
		return
	}

	responses := make([]MeasurementResponse, len(measurements))
	for i := range measurements {
		responses[i] = MapMeasurementToResponse(&measurements[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateMeasurement handles PUT /measurements/:id.
func (h *MeasurementHandler) UpdateMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	measurementID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurement ID format")
		return
	}

	m, err := h.measurementService.UpdateMeasurement(c.Request.Context(), measurementID, userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrMeasurementNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update measurement")
		}
		return
	}
	c.JSON(http.StatusOK, MapMeasurementToResponse(m))
}

// DeleteMeasurement handles DELETE /measurements/:id.
func (h *MeasurementHandler) DeleteMeasurement(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	measurementID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurement ID format")
		return
	}

	if err := h.measurementService.DeleteMeasurement(c.Request.Context(), measurementID, userID); err != nil {
		if errors.Is(err, service.ErrMeasurementNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete measurement")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// LogWeight handles POST /weight-logs.
func (h *MeasurementHandler) LogWeight(c *gin.Context) {
	var req WeightLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	entry, err := h.measurementService.LogWeight(c.Request.Context(), userID, date, req.Weight)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to log weight")
		}
		return
	}
	c.JSON(http.StatusCreated, MapWeightLogToResponse(entry))
}

// GetWeightLogs handles GET /weight-logs.
func (h *MeasurementHandler) GetWeightLogs(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	entries, err := h.measurementService.GetWeightLogs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve weight logs")
		return
	}

	responses := make([]WeightLogResponse, len(entries))
	for i := range entries {
		responses[i] = MapWeightLogToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteWeightLog handles DELETE /weight-logs/:id.
func (h *MeasurementHandler) DeleteWeightLog(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	entryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight log ID format")
		return
	}

	if err := h.measurementService.DeleteWeightLog(c.Request.Context(), entryID, userID); err != nil {
		if errors.Is(err, service.ErrWeightLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete weight log")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
