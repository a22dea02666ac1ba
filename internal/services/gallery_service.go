package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"shutterdesk/internal/caching"
	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"

	"github.com/google/uuid"
)

const (
	GalleryStatusDraft     = "draft"
	GalleryStatusPublished = "published"

	presignedURLExpiry = 1 * time.Hour

	// Cached URLs must drop out well before the signature expires, otherwise
	// a client can be handed a URL with almost no remaining lifetime.
	presignedURLCacheTTL = presignedURLExpiry / 2
)

type CreateGalleryRequest struct {
	Name      string     `json:"name"`
	ClientID  *uuid.UUID `json:"client_id"`
	BookingID *uuid.UUID `json:"booking_id"`
}

// ImageView pairs an image row with a short-lived presigned download URL.
type ImageView struct {
	models.GalleryImage
	URL string `json:"url"`
}

type GalleryService interface {
	Create(ctx context.Context, userID uuid.UUID, req *CreateGalleryRequest) (*models.Gallery, error)
	GetByID(ctx context.Context, userID, galleryID uuid.UUID) (*models.Gallery, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Gallery, error)
	Publish(ctx context.Context, userID, galleryID uuid.UUID) error
	Delete(ctx context.Context, userID, galleryID uuid.UUID) error

	AddImage(ctx context.Context, userID, galleryID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*models.GalleryImage, error)
	ListImages(ctx context.Context, userID, galleryID uuid.UUID) ([]*ImageView, error)
	DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error
}

type galleryService struct {
	galleryRepo repositories.GalleryRepository
	minioSvc    MinioService
	cache       caching.CacheService
	bucket      string
}

// NewGalleryService wires gallery storage. cache may be nil; presigned URLs
// are then generated fresh on every listing.
func NewGalleryService(galleryRepo repositories.GalleryRepository, minioSvc MinioService, cache caching.CacheService, bucket string) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		minioSvc:    minioSvc,
		cache:       cache,
		bucket:      bucket,
	}
}

func urlCacheKey(objectKey string) string {
	return "gallery:url:" + objectKey
}

func (s *galleryService) Create(ctx context.Context, userID uuid.UUID, req *CreateGalleryRequest) (*models.Gallery, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("gallery name is required")
	}

	gallery := &models.Gallery{
		ID:        uuid.New(),
		UserID:    userID,
		ClientID:  req.ClientID,
		BookingID: req.BookingID,
		Name:      req.Name,
		Status:    GalleryStatusDraft,
	}

	if err := s.galleryRepo.Create(ctx, gallery); err != nil {
		return nil, fmt.Errorf("failed to create gallery: %w", err)
	}
	return gallery, nil
}

func (s *galleryService) GetByID(ctx context.Context, userID, galleryID uuid.UUID) (*models.Gallery, error) {
	return s.galleryRepo.GetByID(ctx, userID, galleryID)
}

func (s *galleryService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Gallery, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.galleryRepo.List(ctx, userID, limit, offset)
}

func (s *galleryService) Publish(ctx context.Context, userID, galleryID uuid.UUID) error {
	if _, err := s.galleryRepo.GetByID(ctx, userID, galleryID); err != nil {
		return err
	}
	return s.galleryRepo.UpdateStatus(ctx, userID, galleryID, GalleryStatusPublished)
}

// Delete removes the stored objects first, then the rows. A failed object
// delete is logged and skipped so one missing object cannot strand the rows.
func (s *galleryService) Delete(ctx context.Context, userID, galleryID uuid.UUID) error {
	images, err := s.galleryRepo.ListImages(ctx, userID, galleryID)
	if err != nil {
		return err
	}

	for _, image := range images {
		if err := s.minioSvc.DeleteObject(ctx, s.bucket, image.ObjectKey); err != nil {
			log.Printf("Failed to delete object %s: %v", image.ObjectKey, err)
		}
		if err := s.galleryRepo.DeleteImage(ctx, userID, image.ID); err != nil {
			return err
		}
	}

	return s.galleryRepo.Delete(ctx, userID, galleryID)
}

func (s *galleryService) AddImage(ctx context.Context, userID, galleryID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*models.GalleryImage, error) {
	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	if _, err := s.galleryRepo.GetByID(ctx, userID, galleryID); err != nil {
		return nil, fmt.Errorf("gallery not found: %w", err)
	}

	imageID := uuid.New()
	objectKey := fmt.Sprintf("%s/%s/%s%s", userID, galleryID, imageID, path.Ext(fileName))

	if err := s.minioSvc.UploadObject(ctx, s.bucket, objectKey, contentType, reader, size); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	image := &models.GalleryImage{
		ID:          imageID,
		GalleryID:   galleryID,
		UserID:      userID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
	}

	if err := s.galleryRepo.AddImage(ctx, image); err != nil {
		// Roll back the orphaned object.
		if delErr := s.minioSvc.DeleteObject(ctx, s.bucket, objectKey); delErr != nil {
			log.Printf("Failed to clean up object %s: %v", objectKey, delErr)
		}
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	return image, nil
}

func (s *galleryService) ListImages(ctx context.Context, userID, galleryID uuid.UUID) ([]*ImageView, error) {
	images, err := s.galleryRepo.ListImages(ctx, userID, galleryID)
	if err != nil {
		return nil, err
	}

	views := make([]*ImageView, 0, len(images))
	for _, image := range images {
		url, err := s.presign(ctx, image.ObjectKey)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s: %w", image.ObjectKey, err)
		}
		views = append(views, &ImageView{GalleryImage: *image, URL: url})
	}
	return views, nil
}

// presign returns a download URL for the object, reusing a cached one while
// its remaining signature lifetime is still comfortable.
func (s *galleryService) presign(ctx context.Context, objectKey string) (string, error) {
	if s.cache != nil {
		if url, err := s.cache.GetString(ctx, urlCacheKey(objectKey)); err == nil && url != "" {
			return url, nil
		}
	}

	url, err := s.minioSvc.GetPresignedURL(ctx, s.bucket, objectKey, presignedURLExpiry)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetString(ctx, urlCacheKey(objectKey), url, presignedURLCacheTTL); err != nil {
			log.Printf("Failed to cache presigned URL for %s: %v", objectKey, err)
		}
	}
	return url, nil
}

func (s *galleryService) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	image, err := s.galleryRepo.GetImage(ctx, userID, imageID)
	if err != nil {
		return err
	}

	if err := s.minioSvc.DeleteObject(ctx, s.bucket, image.ObjectKey); err != nil {
		log.Printf("Failed to delete object %s: %v", image.ObjectKey, err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, urlCacheKey(image.ObjectKey)); err != nil {
			log.Printf("Failed to drop cached URL for %s: %v", image.ObjectKey, err)
		}
	}

	return s.galleryRepo.DeleteImage(ctx, userID, imageID)
}
