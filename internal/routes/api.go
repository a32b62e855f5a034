package routes

import (
	"github.com/dukerupert/presswork/internal/middleware"
	"github.com/dukerupert/presswork/internal/router"
)

// multipartOverhead leaves room for form boundaries and fields around the file.
const multipartOverhead = 1 * middleware.MB

// RegisterAPIRoutes registers the configurator and cart API.
// Product routes are public; cart and upload routes need a caller identity.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	jsonLimit := middleware.MaxBodySize(middleware.JSONMaxBodySize)

	// Catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}/configurator", deps.ProductHandler.Configurator)
	r.Post("/api/products/{id}/configurator/restore", deps.ProductHandler.Restore, jsonLimit)
	r.Post("/api/products/{id}/quote", deps.ProductHandler.Quote, jsonLimit)

	// Cart and uploads
	user := r.Group(middleware.RequireUser)
	writes := user
	if deps.CartLimiter != nil {
		writes = user.Group(deps.CartLimiter.Middleware)
	}

	user.Get("/api/cart", deps.CartHandler.List)
	user.Get("/api/cart/lines/{id}/edit", deps.CartHandler.EditPayload)
	writes.Post("/api/cart/lines", deps.CartHandler.Add, jsonLimit)
	writes.Delete("/api/cart/lines/{id}", deps.CartHandler.Remove)
	writes.Post("/api/uploads", deps.UploadHandler.Create, middleware.MaxBodySize(deps.MaxUploadBytes+multipartOverhead))
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", deps.Health)
	if deps.Metrics != nil {
		r.Mount("/metrics", deps.Metrics)
	}
}
