package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

var sentryEnabled bool

// InitSentry initializes the Sentry client and returns a flush function for
// shutdown. A disabled or DSN-less config yields a no-op.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	sentryEnabled = false

	if !cfg.Enabled {
		logger.Info("Sentry disabled")
		return func() {}, nil
	}
	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	sentryEnabled = true

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
	)

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// IsEnabled returns whether Sentry is currently enabled
func IsEnabled() bool {
	return sentryEnabled
}

// CaptureError reports err with the caller's user id and extra context.
// Safe to call when Sentry is disabled.
func CaptureError(err error, userID string, extras map[string]interface{}) {
	if !IsEnabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		if userID != "" {
			scope.SetUser(sentry.User{ID: userID})
		}
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		sentry.CaptureException(err)
	})
}

// SentryMiddleware attaches a per-request hub and reports panics.
func SentryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := sentry.GetHubFromContext(r.Context())
			if hub == nil {
				hub = sentry.CurrentHub().Clone()
			}
			hub.Scope().SetRequest(r)
			ctx := sentry.SetHubOnContext(r.Context(), hub)

			defer func() {
				if err := recover(); err != nil {
					hub.RecoverWithContext(ctx, err)
					sentry.Flush(2 * time.Second)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
