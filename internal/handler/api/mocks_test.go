package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/presswork/internal/domain"
)

type mockCatalog struct {
	listProductsFunc        func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	getConfiguratorFunc     func(ctx context.Context, productID uuid.UUID, restored domain.Selection) (*domain.Configurator, error)
	restoreConfiguratorFunc func(ctx context.Context, productID uuid.UUID, payload domain.EditPayload) (*domain.Configurator, *domain.RestoredSelection, error)
}

func (m *mockCatalog) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCatalog) GetConfigurator(ctx context.Context, productID uuid.UUID, restored domain.Selection) (*domain.Configurator, error) {
	if m.getConfiguratorFunc != nil {
		return m.getConfiguratorFunc(ctx, productID, restored)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockCatalog) RestoreConfigurator(ctx context.Context, productID uuid.UUID, payload domain.EditPayload) (*domain.Configurator, *domain.RestoredSelection, error) {
	if m.restoreConfiguratorFunc != nil {
		return m.restoreConfiguratorFunc(ctx, productID, payload)
	}
	return nil, nil, domain.ErrProductNotFound
}

type mockQuotes struct {
	quoteFunc func(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
}

func (m *mockQuotes) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, req)
	}
	return nil, domain.ErrProductNotFound
}

type mockCart struct {
	addToCartFunc   func(ctx context.Context, req domain.AddToCartRequest) (*domain.ReconcileResult, error)
	listCartFunc    func(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	removeLineFunc  func(ctx context.Context, userID, lineID uuid.UUID) error
	editPayloadFunc func(ctx context.Context, userID, lineID uuid.UUID) (*domain.EditPayload, error)
}

func (m *mockCart) AddToCart(ctx context.Context, req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
	if m.addToCartFunc != nil {
		return m.addToCartFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockCart) ListCart(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	if m.listCartFunc != nil {
		return m.listCartFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockCart) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error {
	if m.removeLineFunc != nil {
		return m.removeLineFunc(ctx, userID, lineID)
	}
	return nil
}

func (m *mockCart) EditPayload(ctx context.Context, userID, lineID uuid.UUID) (*domain.EditPayload, error) {
	if m.editPayloadFunc != nil {
		return m.editPayloadFunc(ctx, userID, lineID)
	}
	return nil, domain.ErrCartLineNotFound
}

type mockUploader struct {
	uploadFunc func(ctx context.Context, in domain.NewUpload) (*domain.UploadedFile, error)
}

func (m *mockUploader) Upload(ctx context.Context, in domain.NewUpload) (*domain.UploadedFile, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, in)
	}
	return nil, nil
}

var (
	testUserID    = uuid.MustParse("9b2f1c3e-4a5d-4e6f-8a7b-1c2d3e4f5a6b")
	testProductID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	testLineID    = uuid.MustParse("423e4567-e89b-12d3-a456-426614174000")
)

// asUser attaches the caller identity the Identity middleware would set.
func asUser(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(domain.NewContextWithUserID(r.Context(), id))
}
