package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/presswork/internal/domain"
)

type mockPublisher struct {
	subject string
	data    []byte
	err     error
}

func (m *mockPublisher) Publish(subject string, data []byte) error {
	m.subject = subject
	m.data = data
	return m.err
}

func TestCartLinePublisher(t *testing.T) {
	ev := domain.CartLineReady{
		CartLineID: uuid.New(),
		UserID:     uuid.New(),
		ProductID:  uuid.New(),
		Pending:    []domain.UploadRef{{StorageKey: "designs/u/a.png"}},
	}

	pub := &mockPublisher{}
	publish := NewCartLinePublisher(pub, "", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	publish(context.Background(), ev)

	assert.Equal(t, DefaultSubject, pub.subject)
	got, err := Decode(pub.data)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestCartLinePublisher_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	pub := &mockPublisher{err: errors.New("nats: connection closed")}
	publish := NewCartLinePublisher(pub, "custom.subject", slog.New(slog.NewTextHandler(&buf, nil)))

	publish(context.Background(), domain.CartLineReady{CartLineID: uuid.New(), UserID: uuid.New()})

	assert.Equal(t, "custom.subject", pub.subject)
	assert.Contains(t, buf.String(), "failed to publish cart line event")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `{"cart_line_id":"` + uuid.NewString() + `","user_id":"` + uuid.NewString() + `"}`},
		{name: "not json", data: `cart`, wantErr: true},
		{name: "missing user", data: `{"cart_line_id":"` + uuid.NewString() + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
