package repositories

import (
	"context"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
)

type GalleryRepository interface {
	Create(ctx context.Context, gallery *models.Gallery) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Gallery, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Gallery, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	AddImage(ctx context.Context, image *models.GalleryImage) error
	GetImage(ctx context.Context, userID, imageID uuid.UUID) (*models.GalleryImage, error)
	ListImages(ctx context.Context, userID, galleryID uuid.UUID) ([]*models.GalleryImage, error)
	DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error
}

type galleryRepo struct {
	db Database
}

func NewGalleryRepo(db Database) GalleryRepository {
	return &galleryRepo{db: db}
}

func (r *galleryRepo) Create(ctx context.Context, gallery *models.Gallery) error {
	query := `
		INSERT INTO galleries (id, user_id, client_id, booking_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, gallery.ID, gallery.UserID, gallery.ClientID, gallery.BookingID, gallery.Name, gallery.Status)
	return err
}

func (r *galleryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Gallery, error) {
	gallery := &models.Gallery{}
	query := `
		SELECT id, user_id, client_id, booking_id, name, status, created_at, updated_at
		FROM galleries
		WHERE user_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&gallery.ID, &gallery.UserID, &gallery.ClientID, &gallery.BookingID, &gallery.Name, &gallery.Status, &gallery.CreatedAt, &gallery.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return gallery, nil
}

func (r *galleryRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Gallery, error) {
	query := `
		SELECT id, user_id, client_id, booking_id, name, status, created_at, updated_at
		FROM galleries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var galleries []*models.Gallery
	for rows.Next() {
		gallery := &models.Gallery{}
		if err := rows.Scan(&gallery.ID, &gallery.UserID, &gallery.ClientID, &gallery.BookingID, &gallery.Name, &gallery.Status, &gallery.CreatedAt, &gallery.UpdatedAt); err != nil {
			return nil, err
		}
		galleries = append(galleries, gallery)
	}
	return galleries, rows.Err()
}

func (r *galleryRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	query := `UPDATE galleries SET status = $1, updated_at = NOW() WHERE user_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, userID, id)
	return err
}

func (r *galleryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM galleries WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *galleryRepo) AddImage(ctx context.Context, image *models.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (id, gallery_id, user_id, object_key, file_name, content_type, size_bytes, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM gallery_images WHERE gallery_id = $2),
			NOW())
	`
	_, err := r.db.Exec(ctx, query, image.ID, image.GalleryID, image.UserID, image.ObjectKey, image.FileName, image.ContentType, image.SizeBytes)
	return err
}

func (r *galleryRepo) GetImage(ctx context.Context, userID, imageID uuid.UUID) (*models.GalleryImage, error) {
	image := &models.GalleryImage{}
	query := `
		SELECT id, gallery_id, user_id, object_key, file_name, content_type, size_bytes, position, created_at
		FROM gallery_images
		WHERE user_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, imageID).Scan(&image.ID, &image.GalleryID, &image.UserID, &image.ObjectKey, &image.FileName, &image.ContentType, &image.SizeBytes, &image.Position, &image.CreatedAt)
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (r *galleryRepo) ListImages(ctx context.Context, userID, galleryID uuid.UUID) ([]*models.GalleryImage, error) {
	query := `
		SELECT id, gallery_id, user_id, object_key, file_name, content_type, size_bytes, position, created_at
		FROM gallery_images
		WHERE user_id = $1 AND gallery_id = $2
		ORDER BY position ASC
	`
	rows, err := r.db.Query(ctx, query, userID, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.GalleryImage
	for rows.Next() {
		image := &models.GalleryImage{}
		if err := rows.Scan(&image.ID, &image.GalleryID, &image.UserID, &image.ObjectKey, &image.FileName, &image.ContentType, &image.SizeBytes, &image.Position, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *galleryRepo) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	query := `DELETE FROM gallery_images WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, imageID)
	return err
}
