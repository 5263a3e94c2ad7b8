package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"fitjournal/workout-tracker/internal/domain"
	"fitjournal/workout-tracker/internal/repository"
	"fitjournal/workout-tracker/internal/storage"
	"fitjournal/workout-tracker/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrImageNotFound    = errors.New("progress image not found")
	ErrInvalidImageType = errors.New("invalid image content type or pose")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
)

// ProgressImageView is a progress photo paired with a presigned download URL.
type ProgressImageView struct {
	Image       domain.ProgressImage
	DownloadURL string
}

// UploadTicket is the response to an upload request: the metadata record was
// created and the client has a time-limited URL to PUT the bytes to.
type UploadTicket struct {
	Image     domain.ProgressImage
	UploadURL string
}

// ProgressImageService manages progress photos: metadata in the database,
// bytes in object storage behind presigned URLs.
type ProgressImageService interface {
	RequestUpload(ctx context.Context, userID string, contentType string, pose domain.ProgressImageType, date time.Time) (*UploadTicket, error)
	GetImages(ctx context.Context, userID string) ([]ProgressImageView, error)
	DeleteImage(ctx context.Context, id primitive.ObjectID, userID string) error
}

type progressImageService struct {
	imageRepo   repository.ProgressImageRepository
	fileStorage storage.FileStorage
}

// NewProgressImageService creates a new progress-image service.
func NewProgressImageService(imageRepo repository.ProgressImageRepository, fileStorage storage.FileStorage) ProgressImageService {
	return &progressImageService{
		imageRepo:   imageRepo,
		fileStorage: fileStorage,
	}
}

func validPose(p domain.ProgressImageType) bool {
	switch p {
	case domain.ImageFront, domain.ImageSide, domain.ImageBack:
		return true
	}
	return false
}

// RequestUpload creates the metadata record and hands back a presigned PUT
// URL. The object key is namespaced per user so keys never collide across
// accounts.
func (s *progressImageService) RequestUpload(ctx context.Context, userID string, contentType string, pose domain.ProgressImageType, date time.Time) (*UploadTicket, error) {
	if userID == "" {
		return nil, ErrValidationFailed
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") || !validPose(pose) {
		return nil, ErrInvalidImageType
	}

	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("progress-photos", userID, fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	img := &domain.ProgressImage{
		UserID:      userID,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Type:        pose,
		Date:        date,
	}
	if _, err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, err
	}

	return &UploadTicket{Image: *img, UploadURL: uploadURL}, nil
}

// GetImages lists the user's progress photos, each with a fresh presigned
// download URL.
func (s *progressImageService) GetImages(ctx context.Context, userID string) ([]ProgressImageView, error) {
	images, err := s.imageRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ProgressImageView, 0, len(images))
	for _, img := range images {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, img.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		views = append(views, ProgressImageView{Image: img, DownloadURL: url})
	}
	return views, nil
}

// DeleteImage removes the stored object and then the metadata record. A
// failed object delete is logged and the metadata is removed anyway.
func (s *progressImageService) DeleteImage(ctx context.Context, id primitive.ObjectID, userID string) error {
	img, err := s.imageRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.fileStorage.DeleteObject(ctx, img.ObjectKey); err != nil {
		logger.Log.WithError(err).WithField("objectKey", img.ObjectKey).
			Warn("failed to delete progress image object")
	}

	err = s.imageRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImageNotFound
	}
	return err
}
