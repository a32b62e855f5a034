// Package events carries cart-line-ready notifications over NATS so that a
// worker process can finish linking uploads the request path missed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/dukerupert/presswork/internal/domain"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "presswork.cart.line.ready"

// Publisher is the part of *nats.Conn the publisher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials NATS with unlimited reconnects. Connection state changes are
// logged.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("presswork"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

// NewCartLinePublisher returns a continuation that publishes every
// cart-line-ready event on subject. Publish failures are logged; the cart
// line is already committed.
func NewCartLinePublisher(pub Publisher, subject string, logger *slog.Logger) domain.CartLineReadyFunc {
	if subject == "" {
		subject = DefaultSubject
	}
	return func(ctx context.Context, ev domain.CartLineReady) {
		data, err := Encode(ev)
		if err != nil {
			logger.ErrorContext(ctx, "failed to encode cart line event", "cart_line_id", ev.CartLineID, "error", err)
			return
		}
		if err := pub.Publish(subject, data); err != nil {
			logger.WarnContext(ctx, "failed to publish cart line event",
				"subject", subject,
				"cart_line_id", ev.CartLineID,
				"error", err,
			)
		}
	}
}

func Encode(ev domain.CartLineReady) ([]byte, error) {
	return json.Marshal(ev)
}

// Decode parses a cart-line-ready message. Events without a line or user are
// rejected.
func Decode(data []byte) (domain.CartLineReady, error) {
	var ev domain.CartLineReady
	if err := json.Unmarshal(data, &ev); err != nil {
		return domain.CartLineReady{}, fmt.Errorf("decode cart line event: %w", err)
	}
	if ev.CartLineID == uuid.Nil || ev.UserID == uuid.Nil {
		return domain.CartLineReady{}, fmt.Errorf("decode cart line event: missing cart_line_id or user_id")
	}
	return ev, nil
}
