package routes

import (
	"net/http"

	"github.com/dukerupert/presswork/internal/handler/api"
	"github.com/dukerupert/presswork/internal/middleware"
)

// APIDeps contains dependencies for the configurator API routes
type APIDeps struct {
	// Products (search, configurator, restore, quote)
	ProductHandler *api.ProductHandler

	// Cart (list, add/merge/edit, edit payload, remove)
	CartHandler *api.CartHandler

	// Design uploads
	UploadHandler *api.UploadHandler

	// CartLimiter throttles cart writes and uploads per caller. Optional.
	CartLimiter *middleware.RateLimiter

	// MaxUploadBytes caps multipart upload bodies.
	MaxUploadBytes int64
}

// OpsDeps contains dependencies for operational endpoints
type OpsDeps struct {
	// Health reports dependency status
	Health http.HandlerFunc

	// Metrics serves the Prometheus registry
	Metrics http.Handler
}
