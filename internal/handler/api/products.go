package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/handler"
)

// Catalog is the slice of the catalog service the product routes use.
type Catalog interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetConfigurator(ctx context.Context, productID uuid.UUID, restored domain.Selection) (*domain.Configurator, error)
	RestoreConfigurator(ctx context.Context, productID uuid.UUID, payload domain.EditPayload) (*domain.Configurator, *domain.RestoredSelection, error)
}

// ProductHandler serves product search, the configurator and quotes.
type ProductHandler struct {
	catalog Catalog
	quotes  domain.QuoteService
	logger  *slog.Logger
}

func NewProductHandler(catalog Catalog, quotes domain.QuoteService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		catalog: catalog,
		quotes:  quotes,
		logger:  logger,
	}
}

// List handles GET /api/products?q=&category=&limit=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 1 {
			handler.ErrorResponse(w, r, domain.NewValidationError("products.list", "limit", "must be a positive number"))
			return
		}
		filter.Limit = int32(limit)
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	handler.JSON(w, http.StatusOK, map[string]any{"products": out})
}

// Configurator handles GET /api/products/{id}/configurator
//
// The response carries the option groups, the default selection and a quote
// for that selection at quantity 1.
func (h *ProductHandler) Configurator(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "id", "configurator.get")
	if !ok {
		return
	}

	cfg, err := h.catalog.GetConfigurator(r.Context(), productID, nil)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	resp := toConfiguratorResponse(cfg)
	resp.Quote = h.initialQuote(r.Context(), productID, cfg.Defaults, 1)
	handler.JSON(w, http.StatusOK, resp)
}

// Restore handles POST /api/products/{id}/configurator/restore
//
// The body is the edit payload produced by GET /api/cart/lines/{id}/edit.
func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "id", "configurator.restore")
	if !ok {
		return
	}

	var payload domain.EditPayload
	if err := handler.DecodeJSON(r, "configurator.restore", &payload); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if payload.Version > domain.EditPayloadVersion {
		handler.ErrorResponse(w, r, domain.NewValidationError("configurator.restore", "version", "unsupported payload version"))
		return
	}

	cfg, restored, err := h.catalog.RestoreConfigurator(r.Context(), productID, payload)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	resp := toConfiguratorResponse(cfg)
	resp.Quote = h.initialQuote(r.Context(), productID, cfg.Defaults, restored.Quantity)
	resp.Restored = &restoredResponse{
		CartLineID: restored.CartLineID,
		Quantity:   restored.Quantity,
		Unmatched:  restored.Unmatched,
	}
	handler.JSON(w, http.StatusOK, resp)
}

// Quote handles POST /api/products/{id}/quote
func (h *ProductHandler) Quote(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "id", "quote")
	if !ok {
		return
	}

	var req quoteRequest
	if err := handler.DecodeJSON(r, "quote", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	quote, err := h.quotes.Quote(r.Context(), domain.QuoteRequest{
		ProductID: productID,
		Selection: req.Variants,
		Quantity:  req.Quantity,
		Size:      req.Size.toDomain(),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, toQuoteResponse(quote))
}

// initialQuote prices the preselected options. A failure is logged and
// leaves the quote out of the response.
func (h *ProductHandler) initialQuote(ctx context.Context, productID uuid.UUID, sel domain.Selection, quantity int32) *quoteResponse {
	if quantity < 1 {
		quantity = 1
	}
	quote, err := h.quotes.Quote(ctx, domain.QuoteRequest{
		ProductID: productID,
		Selection: sel,
		Quantity:  quantity,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "initial quote failed", "product_id", productID, "error", err)
		return nil
	}
	return toQuoteResponse(quote)
}

// pathUUID parses a UUID path value, writing a 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name, op string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil || id == uuid.Nil {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, name, "must be a valid id"))
		return uuid.Nil, false
	}
	return id, true
}
