package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/events"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// MaxConcurrency is the maximum number of events handled at once
	MaxConcurrency int

	// OrphanSweep is how often unattached uploads are counted
	OrphanSweep time.Duration

	// OrphanAge is how old an unattached upload must be to count
	OrphanAge time.Duration

	// EventTimeout bounds a single retry pass
	EventTimeout time.Duration
}

// Uploads is the slice of the upload service the worker drives.
type Uploads interface {
	Retry(ctx context.Context, ev domain.CartLineReady) (int, error)
	ListOrphans(ctx context.Context, olderThan time.Duration) ([]domain.UploadedFile, error)
}

// Worker finishes upload attachment for cart-line-ready events and
// periodically reports uploads that never reached a cart.
type Worker struct {
	config  Config
	uploads Uploads
	logger  *slog.Logger
}

// NewWorker creates a new background worker
func NewWorker(uploads Uploads, config Config, logger *slog.Logger) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.OrphanSweep <= 0 {
		config.OrphanSweep = 15 * time.Minute
	}
	if config.OrphanAge <= 0 {
		config.OrphanAge = 24 * time.Hour
	}
	if config.EventTimeout <= 0 {
		config.EventTimeout = 30 * time.Second
	}

	return &Worker{
		config:  config,
		uploads: uploads,
		logger:  logger,
	}
}

// Start handles messages from msgs until ctx is cancelled, then waits for
// in-flight handlers. A nil msgs channel runs only the orphan sweep.
func (w *Worker) Start(ctx context.Context, msgs <-chan *nats.Msg) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"max_concurrency", w.config.MaxConcurrency,
		"orphan_sweep", w.config.OrphanSweep,
	)

	ticker := time.NewTicker(w.config.OrphanSweep)
	defer ticker.Stop()

	// Semaphore for concurrency control
	sem := make(chan struct{}, w.config.MaxConcurrency)
	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			w.sweepOrphans(ctx)

		case msg, ok := <-msgs:
			if !ok {
				msgs = nil
				continue
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				continue
			}
			wg.Add(1)
			go func(data []byte) {
				defer wg.Done()
				defer func() { <-sem }()
				w.handle(ctx, data)
			}(msg.Data)
		}
	}
}

// handle runs one retry pass for an event's pending uploads.
func (w *Worker) handle(ctx context.Context, data []byte) {
	ev, err := events.Decode(data)
	if err != nil {
		w.logger.Warn("dropping malformed cart line event", "error", err)
		return
	}
	if len(ev.Pending) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.config.EventTimeout)
	defer cancel()

	n, err := w.uploads.Retry(ctx, ev)
	if err != nil {
		w.logger.Error("upload retry failed",
			"cart_line_id", ev.CartLineID,
			"pending", len(ev.Pending),
			"error", err,
		)
		return
	}
	w.logger.Info("upload retry completed",
		"cart_line_id", ev.CartLineID,
		"attached", n,
		"pending", len(ev.Pending),
	)
}

func (w *Worker) sweepOrphans(ctx context.Context) {
	orphans, err := w.uploads.ListOrphans(ctx, w.config.OrphanAge)
	if err != nil {
		w.logger.Error("orphan sweep failed", "error", err)
		return
	}
	if len(orphans) == 0 {
		return
	}
	w.logger.Warn("unattached uploads found",
		"count", len(orphans),
		"older_than", w.config.OrphanAge,
		"oldest_key", orphans[0].StorageKey,
	)
}
