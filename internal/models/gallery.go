package models

import (
	"time"

	"github.com/google/uuid"
)

type Gallery struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ClientID  *uuid.UUID `json:"client_id" db:"client_id"`
	BookingID *uuid.UUID `json:"booking_id" db:"booking_id"`
	Name      string     `json:"name" db:"name"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// GalleryImage points at an object in the image store. The object key is
// internal; clients get presigned URLs instead.
type GalleryImage struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GalleryID   uuid.UUID `json:"gallery_id" db:"gallery_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	ObjectKey   string    `json:"-" db:"object_key"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
