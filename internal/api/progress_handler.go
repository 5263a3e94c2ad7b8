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

// ProgressHandler serves progress photo metadata and presigned URLs.
type ProgressHandler struct {
	progressService service.ProgressImageService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressImageService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type UploadImageRequest struct {
	ContentType string    `json:"contentType" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=front side back"`
	Date        time.Time `json:"date"`
}

type ProgressImageResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ContentType string    `json:"contentType"`
	Date        time.Time `json:"date"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UploadTicketResponse struct {
	Image     ProgressImageResponse `json:"image"`
	UploadURL string                `json:"uploadUrl"`
}

// MapProgressImageToResponse converts a domain progress image to its response DTO.
func MapProgressImageToResponse(img *domain.ProgressImage, downloadURL string) ProgressImageResponse {
	if img == nil {
		return ProgressImageResponse{}
	}
	return ProgressImageResponse{
		ID:          img.ID.Hex(),
		Type:        string(img.Type),
		ContentType: img.ContentType,
		Date:        img.Date,
		DownloadURL: downloadURL,
		CreatedAt:   img.CreatedAt,
	}
}

// RequestUpload handles POST /progress-photos: creates the metadata record and
// returns a presigned PUT URL for the client to upload the bytes directly.
func (h *ProgressHandler) RequestUpload(c *gin.Context) {
	var req UploadImageRequest
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

	ticket, err := h.progressService.RequestUpload(c.Request.Context(), userID, req.ContentType, domain.ProgressImageType(req.Type), date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidImageType), errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUploadURLError):
			abortWithError(c, http.StatusInternalServerError, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to prepare upload")
		}
		return
	}

	c.JSON(http.StatusCreated, UploadTicketResponse{
		Image:     MapProgressImageToResponse(&ticket.Image, ""),
		UploadURL: ticket.UploadURL,
	})
}

// GetImages handles GET /progress-photos.
func (h *ProgressHandler) GetImages(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	views, err := h.progressService.GetImages(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve progress photos")
		return
	}

	responses := make([]ProgressImageResponse, len(views))
	for i := range views {
		responses[i] = MapProgressImageToResponse(&views[i].Image, views[i].DownloadURL)
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteImage handles DELETE /progress-photos/:id.
func (h *ProgressHandler) DeleteImage(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	imageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	if err := h.progressService.DeleteImage(c.Request.Context(), imageID, userID); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete progress photo")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
