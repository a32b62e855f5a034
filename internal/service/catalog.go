package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/postgres"
	"github.com/dukerupert/presswork/internal/repository"
	"github.com/dukerupert/presswork/internal/storage"
	"github.com/dukerupert/presswork/internal/telemetry"
)

const (
	defaultProductLimit = 24
	maxProductLimit     = 100
)

// CatalogService implements domain.CatalogService: the variant catalog
// loader plus the product lookups around it.
type CatalogService struct {
	repo     repository.Querier
	profiles domain.ProfileSource
	files    storage.Storage
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics
}

var _ domain.CatalogService = (*CatalogService)(nil)

func NewCatalogService(repo repository.Querier, profiles domain.ProfileSource, files storage.Storage, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *CatalogService {
	return &CatalogService{
		repo:     repo,
		profiles: profiles,
		files:    files,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	if productID == uuid.Nil {
		return nil, ErrMissingProductID
	}
	p, err := s.repo.GetProduct(ctx, pgUUID(productID))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get_product", "failed to load product")
	}
	product := toDomainProduct(p)
	return &product, nil
}

// ListProducts backs the search page. A failed query is logged and shows as
// an empty result.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	if limit > maxProductLimit {
		limit = maxProductLimit
	}

	rows, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		Search:   strings.TrimSpace(filter.Query),
		Category: strings.TrimSpace(filter.Category),
		Limit:    limit,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "product search failed", "query", filter.Query, "error", err)
		s.metrics.CatalogFetchFailure("products")
		return []domain.Product{}, nil
	}

	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, toDomainProduct(r))
	}
	return products, nil
}

// LoadVariants returns the product's option groups with duplicate values
// removed. No variants, or a failed read, yields an empty slice.
func (s *CatalogService) LoadVariants(ctx context.Context, productID uuid.UUID) ([]domain.VariantGroup, error) {
	groups, err := s.RequireVariants(ctx, productID)
	if domain.IsCode(err, domain.EUNAVAILABLE) {
		return []domain.VariantGroup{}, nil
	}
	return groups, err
}

// RequireVariants is LoadVariants without the empty-slice fallback. A failed
// read is returned as EUNAVAILABLE so callers that write never mistake it for
// a product without options.
func (s *CatalogService) RequireVariants(ctx context.Context, productID uuid.UUID) ([]domain.VariantGroup, error) {
	if productID == uuid.Nil {
		s.logger.ErrorContext(ctx, "variant load requested without product id")
		return nil, ErrMissingProductID
	}

	rows, err := s.repo.ListVariantRows(ctx, pgUUID(productID))
	if err != nil {
		s.logger.WarnContext(ctx, "variant catalog fetch failed", "product_id", productID, "error", err)
		s.metrics.CatalogFetchFailure("variants")
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "catalog.variants", "Product options are temporarily unavailable")
	}
	return groupVariants(rows), nil
}

// groupVariants folds joined rows into groups in first-seen order. A value id
// seen twice is kept once.
func groupVariants(rows []repository.ListVariantRowsRow) []domain.VariantGroup {
	groups := []domain.VariantGroup{}
	index := map[int64]int{}
	seen := map[int64]bool{}

	for _, r := range rows {
		i, ok := index[r.GroupID]
		if !ok {
			groups = append(groups, domain.VariantGroup{
				ID:         r.GroupID,
				Name:       r.GroupName,
				InputStyle: r.InputStyle,
			})
			i = len(groups) - 1
			index[r.GroupID] = i
		}
		if seen[r.ValueID] {
			continue
		}
		seen[r.ValueID] = true
		groups[i].Values = append(groups[i].Values, domain.VariantValue{
			ID:         r.ValueID,
			GroupID:    r.GroupID,
			Name:       r.ValueName,
			PriceDelta: centsToDecimal(r.PriceDeltaCents),
			IsDefault:  r.IsDefault,
		})
	}
	return groups
}

// GetConfigurator loads everything a product page needs. restored carries
// selections recovered from an edit payload; defaults fill only the gaps.
func (s *CatalogService) GetConfigurator(ctx context.Context, productID uuid.UUID, restored domain.Selection) (*domain.Configurator, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	groups, err := s.LoadVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	profile := s.profiles.Profile(product.Slug)
	return &domain.Configurator{
		Product:  *product,
		Groups:   groups,
		Defaults: ResolveDefaults(groups, restored),
		ImageURL: storage.ResolveURL(ctx, s.files, product.ImageKey, profile.ImageFallback),
		Profile:  profile,
	}, nil
}

// RestoreConfigurator maps an edit payload onto the product's current catalog
// and returns the configurator seeded with the restored selection.
func (s *CatalogService) RestoreConfigurator(ctx context.Context, productID uuid.UUID, payload domain.EditPayload) (*domain.Configurator, *domain.RestoredSelection, error) {
	groups, err := s.LoadVariants(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	restored := RestoreSelection(groups, payload)
	s.metrics.EditRestored(string(domain.RestoreByID), len(restored.Selection)-restored.Fuzzy)
	s.metrics.EditRestored(string(domain.RestoreByName), restored.Fuzzy)
	if restored.Fuzzy > 0 || len(restored.Unmatched) > 0 {
		s.logger.InfoContext(ctx, "edit payload restored with fallbacks",
			"product_id", productID,
			"payload_version", payload.Version,
			"fuzzy", restored.Fuzzy,
			"unmatched", len(restored.Unmatched),
		)
	}

	cfg, err := s.GetConfigurator(ctx, productID, restored.Selection)
	if err != nil {
		return nil, nil, err
	}
	return cfg, &restored, nil
}
