package service

import (
	"context"

	"github.com/dukerupert/presswork/internal/domain"
)

// QuoteService prices a selection and looks up its stock in one call.
type QuoteService struct {
	catalog  *CatalogService
	stock    domain.StockService
	profiles domain.ProfileSource
}

var _ domain.QuoteService = (*QuoteService)(nil)

func NewQuoteService(catalog *CatalogService, stock domain.StockService, profiles domain.ProfileSource) *QuoteService {
	return &QuoteService{catalog: catalog, stock: stock, profiles: profiles}
}

func (s *QuoteService) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	groups, err := s.catalog.LoadVariants(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validateSelection("quote", groups, req.Selection); err != nil {
		return nil, err
	}

	profile := s.profiles.Profile(product.Slug)
	price, err := CalculatePrice(product.BasePrice, groups, req.Selection, req.Quantity, req.Size, profile.Size)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		Price:    price,
		Stock:    s.stock.Resolve(ctx, product, groups, req.Selection),
		Complete: req.Selection.Complete(groups),
	}, nil
}
