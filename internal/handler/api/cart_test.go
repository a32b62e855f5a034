package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/presswork/internal/domain"
)

func reconciled(req domain.AddToCartRequest, mode domain.ReconcileMode, qty int32) *domain.ReconcileResult {
	unit := decimal.RequireFromString("125")
	return &domain.ReconcileResult{
		Line: domain.CartLine{
			ID:         testLineID,
			UserID:     req.UserID,
			ProductID:  req.ProductID,
			Quantity:   qty,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(decimal.NewFromInt32(qty)),
			Route:      req.Route,
			Variants: []domain.CartVariant{
				{VariantValueID: 12, PriceDelta: decimal.RequireFromString("20")},
				{VariantValueID: 21, PriceDelta: decimal.RequireFromString("5")},
			},
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Mode:     mode,
		Attached: len(req.Uploads),
	}
}

func TestCartHandler_Add(t *testing.T) {
	uploadID := uuid.MustParse("5f0c6d1e-2b3a-4c5d-9e8f-7a6b5c4d3e2f")
	validBody := `{"product_id":"` + testProductID.String() + `","variants":{"1":12,"2":21},"quantity":3,` +
		`"uploads":[{"id":"` + uploadID.String() + `"}],"route":"/products/custom-stickers"}`

	tests := []struct {
		name           string
		body           string
		anonymous      bool
		add            func(req domain.AddToCartRequest) (*domain.ReconcileResult, error)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "insert returns 201",
			body: validBody,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				assert.Equal(t, testUserID, req.UserID)
				assert.Equal(t, testProductID, req.ProductID)
				assert.Equal(t, domain.Selection{1: 12, 2: 21}, req.Selection)
				assert.Equal(t, int32(3), req.Quantity)
				assert.Equal(t, []domain.UploadRef{{ID: uploadID}}, req.Uploads)
				assert.False(t, req.EditLineID.Valid)
				return reconciled(req, domain.ModeInsert, 3), nil
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"mode":"insert"`)
				assert.Contains(t, body, `"total_price":"375.00"`)
				assert.Contains(t, body, `"attached":1`)
			},
		},
		{
			name: "merge returns 200",
			body: validBody,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				return reconciled(req, domain.ModeMerge, 5), nil
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"mode":"merge"`)
				assert.Contains(t, body, `"quantity":5`)
				assert.Contains(t, body, `"total_price":"625.00"`)
			},
		},
		{
			name: "edit line id switches to edit mode",
			body: `{"product_id":"` + testProductID.String() + `","variants":{"1":11,"2":21},"quantity":2,` +
				`"uploads":[{"id":"` + uploadID.String() + `"}],"edit_line_id":"` + testLineID.String() + `"}`,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				assert.Equal(t, uuid.NullUUID{UUID: testLineID, Valid: true}, req.EditLineID)
				return reconciled(req, domain.ModeEdit, 2), nil
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"mode":"edit"`)
			},
		},
		{
			name:           "missing product id",
			body:           `{"variants":{"1":12},"quantity":1}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"product_id":"required"`)
			},
		},
		{
			name: "quantity at line limit",
			body: `{"product_id":"` + testProductID.String() + `","variants":{"1":12},"quantity":9999,"uploads":[{"id":"` + uploadID.String() + `"}]}`,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				assert.Equal(t, int32(domain.MaxLineQuantity), req.Quantity)
				return reconciled(req, domain.ModeInsert, req.Quantity), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "quantity over line limit",
			body:           `{"product_id":"` + testProductID.String() + `","variants":{"1":12},"quantity":10000}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"quantity":"must be at most 9999"`)
			},
		},
		{
			name:           "zero quantity",
			body:           `{"product_id":"` + testProductID.String() + `","variants":{"1":12},"quantity":0}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"quantity":"must be at least 1"`)
			},
		},
		{
			name: "catalog unavailable",
			body: validBody,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				return nil, domain.WrapError(errors.New("timeout"), domain.EUNAVAILABLE, "catalog.variants", "Product options are temporarily unavailable")
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "upload guard message passes through",
			body: validBody,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				return nil, domain.NewValidationError("cart.add", "uploads", "required")
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"uploads":"required"`)
			},
		},
		{
			name: "duplicate signature",
			body: validBody,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				return nil, domain.ErrAlreadyInCart
			},
			expectedStatus: http.StatusConflict,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "This item is already in your cart")
			},
		},
		{
			name: "concurrent add",
			body: validBody,
			add: func(req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				return nil, domain.ErrAddInProgress
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "anonymous caller",
			body:           validBody,
			anonymous:      true,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			cart := &mockCart{addToCartFunc: func(ctx context.Context, req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
				called = true
				return tt.add(req)
			}}
			h := NewCartHandler(cart, discardLogger)

			req := httptest.NewRequest(http.MethodPost, "/api/cart/lines", strings.NewReader(tt.body))
			if !tt.anonymous {
				req = asUser(req, testUserID)
			}
			rec := httptest.NewRecorder()
			h.Add(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.add != nil, called)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.String())
			}
		})
	}
}

func TestCartHandler_List(t *testing.T) {
	h := NewCartHandler(&mockCart{listCartFunc: func(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
		assert.Equal(t, testUserID, userID)
		req := domain.AddToCartRequest{UserID: userID, ProductID: testProductID}
		line := reconciled(req, domain.ModeInsert, 2).Line
		line.Uploads = []domain.UploadedFile{{
			ID:         testLineID,
			StorageKey: "designs/a.png",
			Filename:   "a.png",
			URL:        "/uploads/designs/a.png",
		}}
		return []domain.CartLine{line}, nil
	}}, discardLogger)

	rec := httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), testUserID))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Lines []cartLineResponse `json:"lines"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Lines, 1)
	assert.Equal(t, "250.00", body.Lines[0].TotalPrice)
	assert.Equal(t, []cartVariantResponse{
		{VariantValueID: 12, PriceDelta: "20.00"},
		{VariantValueID: 21, PriceDelta: "5.00"},
	}, body.Lines[0].Variants)
	require.Len(t, body.Lines[0].Uploads, 1)
	assert.Equal(t, "/uploads/designs/a.png", body.Lines[0].Uploads[0].URL)
	assert.Nil(t, body.Lines[0].Uploads[0].ProductID)
}

func TestCartHandler_EditPayload(t *testing.T) {
	t.Run("returns the versioned payload", func(t *testing.T) {
		h := NewCartHandler(&mockCart{editPayloadFunc: func(ctx context.Context, userID, lineID uuid.UUID) (*domain.EditPayload, error) {
			assert.Equal(t, testLineID, lineID)
			return &domain.EditPayload{
				Version:    domain.EditPayloadVersion,
				CartLineID: lineID,
				Quantity:   2,
				Variants:   []domain.EditVariant{{Group: "Size", Value: "Large", VariantValueID: 12}},
			}, nil
		}}, discardLogger)

		req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), testUserID)
		req.SetPathValue("id", testLineID.String())
		rec := httptest.NewRecorder()
		h.EditPayload(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var payload domain.EditPayload
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, domain.EditPayloadVersion, payload.Version)
		assert.Equal(t, int64(12), payload.Variants[0].VariantValueID)
	})

	t.Run("foreign or missing line", func(t *testing.T) {
		h := NewCartHandler(&mockCart{}, discardLogger)
		req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), testUserID)
		req.SetPathValue("id", testLineID.String())
		rec := httptest.NewRecorder()
		h.EditPayload(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartHandler_Remove(t *testing.T) {
	tests := []struct {
		name           string
		lineID         string
		err            error
		expectedStatus int
	}{
		{name: "removed", lineID: testLineID.String(), expectedStatus: http.StatusNoContent},
		{name: "not found", lineID: testLineID.String(), err: domain.ErrCartLineNotFound, expectedStatus: http.StatusNotFound},
		{name: "malformed id", lineID: "nope", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCartHandler(&mockCart{removeLineFunc: func(ctx context.Context, userID, lineID uuid.UUID) error {
				return tt.err
			}}, discardLogger)

			req := asUser(httptest.NewRequest(http.MethodDelete, "/", nil), testUserID)
			req.SetPathValue("id", tt.lineID)
			rec := httptest.NewRecorder()
			h.Remove(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
