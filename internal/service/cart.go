package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/postgres"
	"github.com/dukerupert/presswork/internal/repository"
	"github.com/dukerupert/presswork/internal/telemetry"
)

// UploadAttacher links tracked uploads to a cart line once its id is known.
type UploadAttacher interface {
	Attach(ctx context.Context, userID, productID, lineID uuid.UUID, refs []domain.UploadRef) (int, error)
	LineUploads(ctx context.Context, lineID uuid.UUID) ([]domain.UploadedFile, error)
}

// CartService is the cart reconciler. Each add runs in one transaction that
// first takes an advisory lock on (user, product).
type CartService struct {
	store    Store
	catalog  *CatalogService
	profiles domain.ProfileSource
	uploads  UploadAttacher
	inflight *inflight
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics
}

var _ domain.CartService = (*CartService)(nil)

func NewCartService(store Store, catalog *CatalogService, profiles domain.ProfileSource, uploads UploadAttacher, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *CartService {
	return &CartService{
		store:    store,
		catalog:  catalog,
		profiles: profiles,
		uploads:  uploads,
		inflight: newInflight(),
		logger:   logger,
		metrics:  metrics,
	}
}

// AddToCart reconciles a configurator selection into the user's cart.
//
// With EditLineID set, that line is rewritten in place and no other line is
// read or written. Otherwise the first existing line for the product whose
// variant set equals the selection absorbs the quantity, and when none does a
// new line and its variant rows are inserted together.
func (s *CartService) AddToCart(ctx context.Context, req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
	result, err := s.addToCart(ctx, req)
	if err != nil {
		s.metrics.Rejected(domain.ErrorCode(err))
		return nil, err
	}
	s.metrics.Reconciled(string(result.Mode), result.Line.TotalPrice.InexactFloat64())
	return result, nil
}

func (s *CartService) addToCart(ctx context.Context, req domain.AddToCartRequest) (*domain.ReconcileResult, error) {
	if req.UserID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}

	key := req.UserID.String() + ":" + req.ProductID.String()
	if !s.inflight.acquire(key) {
		return nil, domain.ErrAddInProgress
	}
	defer s.inflight.release(key)

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	var invalid error
	if req.Quantity > domain.MaxLineQuantity {
		invalid = errQuantityTooLarge("cart.add")
	}
	if len(req.Uploads) == 0 {
		invalid = domain.AddFieldError(invalid, "uploads", "required")
	}
	if invalid != nil {
		return nil, invalid
	}

	groups, err := s.catalog.RequireVariants(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validateSelection("cart.add", groups, req.Selection); err != nil {
		return nil, err
	}
	if !req.Selection.Complete(groups) {
		return nil, errSelectionIncomplete("cart.add")
	}

	profile := s.profiles.Profile(product.Slug)
	price, err := CalculatePrice(product.BasePrice, groups, req.Selection, req.Quantity, req.Size, profile.Size)
	if err != nil {
		return nil, err
	}
	values := selectedValues(groups, req.Selection)

	var result domain.ReconcileResult
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		if err := q.LockCartSignature(ctx, repository.LockCartSignatureParams{
			UserID:    pgUUID(req.UserID),
			ProductID: pgUUID(req.ProductID),
		}); err != nil {
			return err
		}

		var txErr error
		if req.EditLineID.Valid {
			result, txErr = s.editLine(ctx, q, req, price, values)
		} else {
			result, txErr = s.mergeOrInsert(ctx, q, req, price, values)
		}
		return txErr
	})
	if err != nil {
		return nil, s.mapWriteError(ctx, err)
	}

	s.logger.InfoContext(ctx, "cart line reconciled",
		"mode", result.Mode,
		"cart_line_id", result.Line.ID,
		"product_id", req.ProductID,
		"quantity", result.Line.Quantity,
	)

	attached, err := s.uploads.Attach(ctx, req.UserID, req.ProductID, result.Line.ID, req.Uploads)
	if err != nil {
		s.logger.WarnContext(ctx, "upload attachment incomplete",
			"cart_line_id", result.Line.ID,
			"attached", attached,
			"requested", len(req.Uploads),
			"error", err,
		)
	}
	result.Attached = attached

	return &result, nil
}

func (s *CartService) editLine(ctx context.Context, q repository.Querier, req domain.AddToCartRequest, price domain.Price, values []domain.VariantValue) (domain.ReconcileResult, error) {
	line, err := q.GetCartLine(ctx, pgUUID(req.EditLineID.UUID))
	if err != nil {
		if postgres.IsNoRows(err) {
			return domain.ReconcileResult{}, domain.ErrCartLineNotFound
		}
		return domain.ReconcileResult{}, err
	}
	if fromPGUUID(line.UserID) != req.UserID || fromPGUUID(line.ProductID) != req.ProductID {
		return domain.ReconcileResult{}, domain.ErrCartLineNotFound
	}

	updated, err := q.UpdateCartLine(ctx, repository.UpdateCartLineParams{
		ID:              line.ID,
		Quantity:        req.Quantity,
		UnitPriceCents:  decimalToCents(price.Unit),
		TotalPriceCents: decimalToCents(price.Total),
	})
	if err != nil {
		return domain.ReconcileResult{}, err
	}

	if err := q.DeleteCartLineVariants(ctx, line.ID); err != nil {
		return domain.ReconcileResult{}, err
	}
	rows, err := insertVariantRows(ctx, q, line.ID, values)
	if err != nil {
		return domain.ReconcileResult{}, err
	}

	return domain.ReconcileResult{Line: toDomainCartLine(updated, rows), Mode: domain.ModeEdit}, nil
}

func (s *CartService) mergeOrInsert(ctx context.Context, q repository.Querier, req domain.AddToCartRequest, price domain.Price, values []domain.VariantValue) (domain.ReconcileResult, error) {
	lines, err := q.ListCartLinesByProduct(ctx, repository.ListCartLinesByProductParams{
		UserID:    pgUUID(req.UserID),
		ProductID: pgUUID(req.ProductID),
	})
	if err != nil {
		return domain.ReconcileResult{}, err
	}

	selected := req.Selection.ValueIDs()
	for _, line := range lines {
		rows, err := q.ListCartLineVariants(ctx, line.ID)
		if err != nil {
			return domain.ReconcileResult{}, err
		}
		if !domain.SameValueSet(variantValueIDs(rows), selected) {
			continue
		}

		merged := int64(line.Quantity) + int64(req.Quantity)
		if merged > domain.MaxLineQuantity {
			return domain.ReconcileResult{}, errQuantityTooLarge("cart.add")
		}
		quantity := int32(merged)
		updated, err := q.UpdateCartLine(ctx, repository.UpdateCartLineParams{
			ID:              line.ID,
			Quantity:        quantity,
			UnitPriceCents:  decimalToCents(price.Unit),
			TotalPriceCents: decimalToCents(price.Unit.Mul(decimal.NewFromInt32(quantity))),
		})
		if err != nil {
			return domain.ReconcileResult{}, err
		}
		return domain.ReconcileResult{Line: toDomainCartLine(updated, rows), Mode: domain.ModeMerge}, nil
	}

	created, err := q.CreateCartLine(ctx, repository.CreateCartLineParams{
		UserID:          pgUUID(req.UserID),
		ProductID:       pgUUID(req.ProductID),
		Quantity:        req.Quantity,
		UnitPriceCents:  decimalToCents(price.Unit),
		TotalPriceCents: decimalToCents(price.Total),
		Route:           req.Route,
	})
	if err != nil {
		return domain.ReconcileResult{}, err
	}
	rows, err := insertVariantRows(ctx, q, created.ID, values)
	if err != nil {
		return domain.ReconcileResult{}, err
	}
	return domain.ReconcileResult{Line: toDomainCartLine(created, rows), Mode: domain.ModeInsert}, nil
}

func insertVariantRows(ctx context.Context, q repository.Querier, lineID pgtype.UUID, values []domain.VariantValue) ([]repository.CartLineVariant, error) {
	rows := make([]repository.CartLineVariant, 0, len(values))
	for _, v := range values {
		row, err := q.CreateCartLineVariant(ctx, repository.CreateCartLineVariantParams{
			CartLineID:      lineID,
			VariantValueID:  v.ID,
			PriceDeltaCents: decimalToCents(v.PriceDelta),
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *CartService) mapWriteError(ctx context.Context, err error) error {
	var de *domain.Error
	if errors.As(err, &de) || domain.IsValidationError(err) {
		return err
	}
	if postgres.IsUniqueViolation(err) {
		return domain.ErrAlreadyInCart
	}
	s.logger.ErrorContext(ctx, "cart reconciliation failed", "error", err)
	return domain.Internal(err, "cart.add", "failed to update cart")
}

// ListCart returns the user's lines with their variant rows.
func (s *CartService) ListCart(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	lines, err := s.store.ListCartLinesByUser(ctx, pgUUID(userID))
	if err != nil {
		return nil, domain.Internal(err, "cart.list", "failed to load cart")
	}

	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		rows, err := s.store.ListCartLineVariants(ctx, l.ID)
		if err != nil {
			return nil, domain.Internal(err, "cart.list", "failed to load cart line variants")
		}
		line := toDomainCartLine(l, rows)
		if line.Uploads, err = s.uploads.LineUploads(ctx, line.ID); err != nil {
			s.logger.Warn("cart line uploads unavailable", "cart_line_id", line.ID, "error", err)
		}
		out = append(out, line)
	}
	return out, nil
}

// RemoveLine deletes one of the user's lines. Attached uploads are detached
// by the foreign key, not deleted.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error {
	n, err := s.store.DeleteCartLine(ctx, repository.DeleteCartLineParams{
		ID:     pgUUID(lineID),
		UserID: pgUUID(userID),
	})
	if err != nil {
		return domain.Internal(err, "cart.remove", "failed to remove cart line")
	}
	if n == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

// EditPayload builds the hand-off payload for reopening a line in the
// configurator.
func (s *CartService) EditPayload(ctx context.Context, userID, lineID uuid.UUID) (*domain.EditPayload, error) {
	line, err := s.store.GetCartLine(ctx, pgUUID(lineID))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, domain.ErrCartLineNotFound
		}
		return nil, domain.Internal(err, "cart.edit_payload", "failed to load cart line")
	}
	if fromPGUUID(line.UserID) != userID {
		return nil, domain.ErrCartLineNotFound
	}

	rows, err := s.store.ListCartLineVariants(ctx, line.ID)
	if err != nil {
		return nil, domain.Internal(err, "cart.edit_payload", "failed to load cart line variants")
	}
	groups, err := s.catalog.LoadVariants(ctx, fromPGUUID(line.ProductID))
	if err != nil {
		return nil, err
	}

	names := map[int64][2]string{}
	for _, g := range groups {
		for _, v := range g.Values {
			names[v.ID] = [2]string{g.Name, v.Name}
		}
	}

	payload := &domain.EditPayload{
		Version:    domain.EditPayloadVersion,
		CartLineID: fromPGUUID(line.ID),
		Quantity:   line.Quantity,
		Variants:   make([]domain.EditVariant, 0, len(rows)),
	}
	for _, r := range rows {
		n := names[r.VariantValueID]
		payload.Variants = append(payload.Variants, domain.EditVariant{
			Group:          n[0],
			Value:          n[1],
			VariantValueID: r.VariantValueID,
		})
	}
	return payload, nil
}
