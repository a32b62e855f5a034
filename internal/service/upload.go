package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/repository"
	"github.com/dukerupert/presswork/internal/storage"
	"github.com/dukerupert/presswork/internal/telemetry"
)

// sniffLen is how much of the body is read up front for content detection.
const sniffLen = 3072

var allowedDesignExt = []string{".ai", ".eps", ".jpeg", ".jpg", ".obj", ".pdf", ".png", ".stl", ".svg", ".tif", ".tiff"}

// UploadService stores design files and links them to cart lines once the
// line exists. Continuations registered with OnCartLineReady run after every
// attachment pass started by the cart.
type UploadService struct {
	repo    repository.Querier
	files   storage.Storage
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
	maxSize int64

	mu            sync.RWMutex
	continuations []domain.CartLineReadyFunc
}

var _ domain.UploadService = (*UploadService)(nil)

func NewUploadService(repo repository.Querier, files storage.Storage, maxSize int64, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *UploadService {
	return &UploadService{
		repo:    repo,
		files:   files,
		logger:  logger,
		metrics: metrics,
		maxSize: maxSize,
	}
}

// OnCartLineReady registers fn to run after each cart attachment pass.
func (s *UploadService) OnCartLineReady(fn domain.CartLineReadyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.continuations = append(s.continuations, fn)
}

// Upload stores the object first and then records it unattached. If the
// insert fails the object is removed again.
func (s *UploadService) Upload(ctx context.Context, in domain.NewUpload) (*domain.UploadedFile, error) {
	const op = "upload.create"

	if in.UserID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	name := strings.TrimSpace(path.Base(in.Filename))
	if name == "" || name == "." || name == "/" {
		return nil, domain.NewValidationError(op, "file", "required")
	}
	ext := strings.ToLower(path.Ext(name))
	if !slices.Contains(allowedDesignExt, ext) {
		return nil, domain.NewValidationError(op, "file", fmt.Sprintf("File type %q is not accepted", ext))
	}
	if in.Size <= 0 {
		return nil, domain.NewValidationError(op, "file", "File is empty")
	}
	if s.maxSize > 0 && in.Size > s.maxSize {
		return nil, domain.Errorf(domain.ETOOLARGE, op, "File exceeds the %d MB limit", s.maxSize>>20)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, domain.Internal(err, op, "failed to read upload")
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()
	body := io.MultiReader(bytes.NewReader(head), in.Body)

	fileID := uuid.New()
	key := storage.DesignKey(in.UserID.String(), fileID.String(), name)
	url, err := s.files.Put(ctx, key, body, contentType)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to store file")
	}

	row, err := s.repo.CreateUploadedFile(ctx, repository.CreateUploadedFileParams{
		UserID:      pgUUID(in.UserID),
		ProductID:   pgNullUUID(in.ProductID),
		StorageKey:  key,
		Filename:    name,
		ContentType: contentType,
		SizeBytes:   in.Size,
	})
	if err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove stored file after insert error", "key", key, "error", delErr)
		}
		return nil, domain.Internal(err, op, "failed to record upload")
	}

	s.metrics.UploadStored()
	file := toDomainUpload(row)
	file.URL = url
	return &file, nil
}

// Attach links refs to lineID, first by id and then by storage key, and then
// runs the registered continuations. It returns how many refs were linked.
// Failures never roll back the cart line.
func (s *UploadService) Attach(ctx context.Context, userID, productID, lineID uuid.UUID, refs []domain.UploadRef) (int, error) {
	attached, pending, err := s.link(ctx, userID, lineID, refs)

	ev := domain.CartLineReady{
		CartLineID: lineID,
		UserID:     userID,
		ProductID:  productID,
		Pending:    pending,
	}
	s.mu.RLock()
	fns := slices.Clone(s.continuations)
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ctx, ev)
	}

	return attached, err
}

// Retry runs a linking pass for refs still pending on ev without notifying
// continuations again.
func (s *UploadService) Retry(ctx context.Context, ev domain.CartLineReady) (int, error) {
	attached, pending, err := s.link(ctx, ev.UserID, ev.CartLineID, ev.Pending)
	if len(pending) > 0 {
		s.logger.InfoContext(ctx, "uploads still unattached after retry",
			"cart_line_id", ev.CartLineID,
			"pending", len(pending),
		)
	}
	return attached, err
}

func (s *UploadService) link(ctx context.Context, userID, lineID uuid.UUID, refs []domain.UploadRef) (int, []domain.UploadRef, error) {
	var (
		attached int
		pending  []domain.UploadRef
		errs     []error
	)
	for _, ref := range refs {
		column, err := s.attachOne(ctx, userID, lineID, ref)
		s.metrics.UploadAttached(column)
		if err != nil {
			s.logger.WarnContext(ctx, "upload attachment failed",
				"cart_line_id", lineID,
				"upload_id", ref.ID,
				"storage_key", ref.StorageKey,
				"error", err,
			)
			errs = append(errs, err)
		}
		if column == telemetry.AttachMissed {
			pending = append(pending, ref)
			continue
		}
		attached++
	}
	return attached, pending, errors.Join(errs...)
}

// attachOne reports which column matched the upload row.
func (s *UploadService) attachOne(ctx context.Context, userID, lineID uuid.UUID, ref domain.UploadRef) (string, error) {
	if ref.ID != uuid.Nil {
		n, err := s.repo.AttachUploadByID(ctx, repository.AttachUploadByIDParams{
			ID:         pgUUID(ref.ID),
			UserID:     pgUUID(userID),
			CartLineID: pgUUID(lineID),
		})
		if err != nil {
			return telemetry.AttachMissed, err
		}
		if n > 0 {
			return telemetry.AttachByID, nil
		}
	}
	if ref.StorageKey == "" {
		return telemetry.AttachMissed, nil
	}

	n, err := s.repo.AttachUploadByStorageKey(ctx, repository.AttachUploadByStorageKeyParams{
		StorageKey: ref.StorageKey,
		UserID:     pgUUID(userID),
		CartLineID: pgUUID(lineID),
	})
	if err != nil {
		return telemetry.AttachMissed, err
	}
	if n == 0 {
		return telemetry.AttachMissed, nil
	}
	return telemetry.AttachByStorageKey, nil
}

// LineUploads returns the uploads attached to a cart line.
func (s *UploadService) LineUploads(ctx context.Context, lineID uuid.UUID) ([]domain.UploadedFile, error) {
	rows, err := s.repo.ListUploadsByCartLine(ctx, pgUUID(lineID))
	if err != nil {
		return nil, domain.Internal(err, "upload.line_uploads", "failed to list cart line uploads")
	}
	return s.withURLs(rows), nil
}

// ListOrphans returns uploads older than olderThan that never reached a cart.
func (s *UploadService) ListOrphans(ctx context.Context, olderThan time.Duration) ([]domain.UploadedFile, error) {
	cutoff := pgtype.Timestamptz{Time: time.Now().Add(-olderThan), Valid: true}
	rows, err := s.repo.ListOrphanedUploads(ctx, cutoff)
	if err != nil {
		return nil, domain.Internal(err, "upload.list_orphans", "failed to list orphaned uploads")
	}
	return s.withURLs(rows), nil
}

func (s *UploadService) withURLs(rows []repository.UploadedFile) []domain.UploadedFile {
	files := make([]domain.UploadedFile, 0, len(rows))
	for _, r := range rows {
		f := toDomainUpload(r)
		f.URL = s.files.URL(r.StorageKey)
		files = append(files, f)
	}
	return files
}

func (s *UploadService) ResolveURL(ctx context.Context, key, fallback string) string {
	return storage.ResolveURL(ctx, s.files, key, fallback)
}

func toDomainUpload(u repository.UploadedFile) domain.UploadedFile {
	return domain.UploadedFile{
		ID:          fromPGUUID(u.ID),
		UserID:      fromPGUUID(u.UserID),
		ProductID:   fromPGNullUUID(u.ProductID),
		CartLineID:  fromPGNullUUID(u.CartLineID),
		StorageKey:  u.StorageKey,
		Filename:    u.Filename,
		ContentType: u.ContentType,
		SizeBytes:   u.SizeBytes,
		CreatedAt:   fromPGTime(u.CreatedAt),
	}
}
