package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadedFile is a design file stored for a user. CartLineID stays null
// until the file is attached to a cart line.
type UploadedFile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.NullUUID
	CartLineID  uuid.NullUUID
	StorageKey  string
	Filename    string
	ContentType string
	SizeBytes   int64
	URL         string
	CreatedAt   time.Time
}

// UploadRef identifies a tracked upload. ID is tried first, StorageKey second.
type UploadRef struct {
	ID         uuid.UUID `json:"id"`
	StorageKey string    `json:"storage_key,omitempty"`
}

// CartLineReady is delivered to continuations once a cart line id is known.
// Pending lists the refs the linker could not attach.
type CartLineReady struct {
	CartLineID uuid.UUID   `json:"cart_line_id"`
	UserID     uuid.UUID   `json:"user_id"`
	ProductID  uuid.UUID   `json:"product_id"`
	Pending    []UploadRef `json:"pending,omitempty"`
}

// CartLineReadyFunc replaces the page-wide "cart-created" broadcast.
type CartLineReadyFunc func(ctx context.Context, ev CartLineReady)

type NewUpload struct {
	UserID      uuid.UUID
	ProductID   uuid.NullUUID
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService stores design files and links them to cart lines.
type UploadService interface {
	Upload(ctx context.Context, in NewUpload) (*UploadedFile, error)
	Attach(ctx context.Context, userID, productID, lineID uuid.UUID, refs []UploadRef) (int, error)
	LineUploads(ctx context.Context, lineID uuid.UUID) ([]UploadedFile, error)
	ListOrphans(ctx context.Context, olderThan time.Duration) ([]UploadedFile, error)
	ResolveURL(ctx context.Context, key, fallback string) string
}
