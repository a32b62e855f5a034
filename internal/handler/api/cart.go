package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/handler"
)

// CartHandler exposes the cart reconciler.
type CartHandler struct {
	cart   domain.CartService
	logger *slog.Logger
}

func NewCartHandler(cart domain.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{cart: cart, logger: logger}
}

// List handles GET /api/cart
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.UserIDFromContext(r.Context())
	if !ok {
		handler.UnauthorizedResponse(w, r)
		return
	}

	lines, err := h.cart.ListCart(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	out := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toCartLineResponse(l))
	}
	handler.JSON(w, http.StatusOK, map[string]any{"lines": out})
}

// Add handles POST /api/cart/lines
//
// Inserts a new line, merges into a line with the same variant set, or edits
// the line named by edit_line_id. Responds 201 only when a line was created.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.UserIDFromContext(r.Context())
	if !ok {
		handler.UnauthorizedResponse(w, r)
		return
	}

	var req addLineRequest
	if err := handler.DecodeJSON(r, "cart.add", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.cart.AddToCart(r.Context(), req.toDomain(userID))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Mode == domain.ModeInsert {
		status = http.StatusCreated
	}
	handler.JSON(w, status, reconcileResponse{
		Line:     toCartLineResponse(result.Line),
		Mode:     string(result.Mode),
		Attached: result.Attached,
	})
}

// EditPayload handles GET /api/cart/lines/{id}/edit
func (h *CartHandler) EditPayload(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.UserIDFromContext(r.Context())
	if !ok {
		handler.UnauthorizedResponse(w, r)
		return
	}
	lineID, ok := pathUUID(w, r, "id", "cart.edit_payload")
	if !ok {
		return
	}

	payload, err := h.cart.EditPayload(r.Context(), userID, lineID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, payload)
}

// Remove handles DELETE /api/cart/lines/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.UserIDFromContext(r.Context())
	if !ok {
		handler.UnauthorizedResponse(w, r)
		return
	}
	lineID, ok := pathUUID(w, r, "id", "cart.remove")
	if !ok {
		return
	}

	if err := h.cart.RemoveLine(r.Context(), userID, lineID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
