package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/events"
)

type mockUploads struct {
	mu        sync.Mutex
	retried   []domain.CartLineReady
	orphans   []domain.UploadedFile
	retryErr  error
	listCalls int
}

func (m *mockUploads) Retry(ctx context.Context, ev domain.CartLineReady) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retried = append(m.retried, ev)
	return len(ev.Pending), m.retryErr
}

func (m *mockUploads) ListOrphans(ctx context.Context, olderThan time.Duration) ([]domain.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.orphans, nil
}

func (m *mockUploads) retryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.retried)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func eventMsg(t *testing.T, ev domain.CartLineReady) *nats.Msg {
	t.Helper()
	data, err := events.Encode(ev)
	require.NoError(t, err)
	return &nats.Msg{Subject: events.DefaultSubject, Data: data}
}

func TestWorker_RetriesPendingUploads(t *testing.T) {
	uploads := &mockUploads{}
	w := NewWorker(uploads, Config{OrphanSweep: time.Hour}, slog.New(slog.NewTextHandler(&syncBuffer{}, nil)))

	msgs := make(chan *nats.Msg, 4)
	withPending := domain.CartLineReady{
		CartLineID: uuid.New(),
		UserID:     uuid.New(),
		Pending:    []domain.UploadRef{{StorageKey: "designs/u/a.png"}},
	}
	msgs <- eventMsg(t, withPending)
	msgs <- eventMsg(t, domain.CartLineReady{CartLineID: uuid.New(), UserID: uuid.New()})
	msgs <- &nats.Msg{Data: []byte("garbage")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, msgs) }()

	assert.Eventually(t, func() bool { return uploads.retryCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	uploads.mu.Lock()
	defer uploads.mu.Unlock()
	assert.Equal(t, withPending.CartLineID, uploads.retried[0].CartLineID)
}

func TestWorker_LogsRetryFailure(t *testing.T) {
	uploads := &mockUploads{retryErr: errors.New("db down")}
	logs := &syncBuffer{}
	w := NewWorker(uploads, Config{OrphanSweep: time.Hour}, slog.New(slog.NewTextHandler(logs, nil)))

	msgs := make(chan *nats.Msg, 1)
	msgs <- eventMsg(t, domain.CartLineReady{
		CartLineID: uuid.New(),
		UserID:     uuid.New(),
		Pending:    []domain.UploadRef{{ID: uuid.New()}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, msgs) }()

	assert.Eventually(t, func() bool { return uploads.retryCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Contains(t, logs.String(), "upload retry failed")
}

func TestWorker_SweepsOrphans(t *testing.T) {
	uploads := &mockUploads{orphans: []domain.UploadedFile{{StorageKey: "designs/u/old.png"}}}
	logs := &syncBuffer{}
	w := NewWorker(uploads, Config{OrphanSweep: 10 * time.Millisecond}, slog.New(slog.NewTextHandler(logs, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, nil) }()

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(logs.String()), []byte("unattached uploads found"))
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&mockUploads{}, Config{}, slog.Default())
	assert.Equal(t, 4, w.config.MaxConcurrency)
	assert.Equal(t, 15*time.Minute, w.config.OrphanSweep)
	assert.Equal(t, 24*time.Hour, w.config.OrphanAge)
	assert.NotEmpty(t, w.config.WorkerID)
}
