package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/handler"
)

// Uploader stores design files.
type Uploader interface {
	Upload(ctx context.Context, in domain.NewUpload) (*domain.UploadedFile, error)
}

// UploadHandler accepts multipart design uploads.
type UploadHandler struct {
	uploads   Uploader
	maxMemory int64
	logger    *slog.Logger
}

// NewUploadHandler creates an upload handler. maxMemory caps how much of a
// multipart body is buffered in memory before spilling to temp files.
func NewUploadHandler(uploads Uploader, maxMemory int64, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxMemory <= 0 {
		maxMemory = 8 << 20
	}
	return &UploadHandler{uploads: uploads, maxMemory: maxMemory, logger: logger}
}

// Create handles POST /api/uploads
//
// Form fields:
//   - file: the design file (required)
//   - product_id: the product the design is for (optional)
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.UserIDFromContext(r.Context())
	if !ok {
		handler.UnauthorizedResponse(w, r)
		return
	}

	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "upload.create", "File exceeds the %d MB limit", maxErr.Limit>>20))
			return
		}
		handler.ErrorResponse(w, r, domain.NewValidationError("upload.create", "file", "Expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handler.ErrorResponse(w, r, domain.NewValidationError("upload.create", "file", "required"))
		return
	}
	defer file.Close()

	in := domain.NewUpload{
		UserID:      userID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if raw := strings.TrimSpace(r.FormValue("product_id")); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			handler.ErrorResponse(w, r, domain.NewValidationError("upload.create", "product_id", "must be a valid id"))
			return
		}
		in.ProductID = uuid.NullUUID{UUID: productID, Valid: true}
	}

	uploaded, err := h.uploads.Upload(r.Context(), in)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "design uploaded",
		"upload_id", uploaded.ID,
		"size", uploaded.SizeBytes,
		"content_type", uploaded.ContentType,
	)
	handler.JSON(w, http.StatusCreated, toUploadResponse(uploaded))
}
