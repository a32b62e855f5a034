package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/repository"
	"github.com/dukerupert/presswork/internal/telemetry"
)

// StockResolver implements domain.StockService.
type StockResolver struct {
	repo     repository.Querier
	profiles domain.ProfileSource
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics
}

var _ domain.StockService = (*StockResolver)(nil)

func NewStockResolver(repo repository.Querier, profiles domain.ProfileSource, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *StockResolver {
	return &StockResolver{
		repo:     repo,
		profiles: profiles,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve maps a complete selection to an inventory quantity. An incomplete
// selection stays unresolved. Read failures collapse to a resolved zero.
func (s *StockResolver) Resolve(ctx context.Context, product *domain.Product, groups []domain.VariantGroup, sel domain.Selection) domain.StockLevel {
	if product == nil || !sel.Complete(groups) {
		s.metrics.StockLookup(telemetry.StockIncomplete)
		return domain.StockLevel{}
	}

	rows, err := s.repo.ListCombinationValues(ctx, pgUUID(product.ID))
	if err != nil {
		s.logger.WarnContext(ctx, "combination fetch failed", "product_id", product.ID, "error", err)
		s.metrics.StockLookup(telemetry.StockError)
		return domain.StockLevel{Resolved: true}
	}

	policy := s.profiles.Profile(product.Slug).StockMatch
	combo, ok := MatchCombination(groupCombinations(rows), sel.ValueIDs(), policy)
	if !ok {
		s.metrics.StockLookup(telemetry.StockUnmatched)
		return domain.StockLevel{Resolved: true}
	}

	level := domain.StockLevel{Resolved: true, Matched: true, CombinationID: combo.ID}

	inv, err := s.repo.ListInventoryByCombination(ctx, combo.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "inventory fetch failed", "combination_id", combo.ID, "error", err)
		s.metrics.StockLookup(telemetry.StockError)
		return level
	}

	s.metrics.StockLookup(telemetry.StockMatched)
	rec, ok := PickInventory(toInventoryRecords(inv))
	if !ok {
		return level
	}
	level.Quantity = rec.Quantity
	level.LowStock = rec.Quantity > 0 && rec.Quantity <= rec.LowStockThreshold
	return level
}

// groupCombinations folds (combination, value) rows into combinations with
// sorted value ids, ordered by combination id.
func groupCombinations(rows []repository.ListCombinationValuesRow) []domain.Combination {
	byID := map[int64]int{}
	var combos []domain.Combination
	for _, r := range rows {
		i, ok := byID[r.CombinationID]
		if !ok {
			combos = append(combos, domain.Combination{ID: r.CombinationID})
			i = len(combos) - 1
			byID[r.CombinationID] = i
		}
		combos[i].ValueIDs = append(combos[i].ValueIDs, r.VariantValueID)
	}
	for i := range combos {
		slices.Sort(combos[i].ValueIDs)
		combos[i].ValueIDs = slices.Compact(combos[i].ValueIDs)
	}
	slices.SortFunc(combos, func(a, b domain.Combination) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return combos
}

// MatchCombination finds the combination whose id set equals selected. Under
// the subset policy, when nothing matches exactly, the combination contained
// in selected with the largest overlap wins; ties go to the lowest id.
func MatchCombination(combos []domain.Combination, selected []int64, policy string) (domain.Combination, bool) {
	ids := slices.Clone(selected)
	slices.Sort(ids)

	for _, c := range combos {
		if slices.Equal(c.ValueIDs, ids) {
			return c, true
		}
	}
	if policy != domain.StockMatchSubset {
		return domain.Combination{}, false
	}

	var best domain.Combination
	bestOverlap := 0
	for _, c := range combos {
		if len(c.ValueIDs) == 0 || !isSubset(c.ValueIDs, ids) {
			continue
		}
		if len(c.ValueIDs) > bestOverlap || (len(c.ValueIDs) == bestOverlap && c.ID < best.ID) {
			best = c
			bestOverlap = len(c.ValueIDs)
		}
	}
	return best, bestOverlap > 0
}

// isSubset reports whether every id in sub is in set. Both are sorted.
func isSubset(sub, set []int64) bool {
	for _, id := range sub {
		if _, found := slices.BinarySearch(set, id); !found {
			return false
		}
	}
	return true
}

// PickInventory chooses the authoritative record: the newest "in_stock" row
// if any, else the newest row.
func PickInventory(records []domain.InventoryRecord) (domain.InventoryRecord, bool) {
	if len(records) == 0 {
		return domain.InventoryRecord{}, false
	}
	var best domain.InventoryRecord
	found := false
	for _, r := range records {
		if r.Status != domain.InventoryStatusInStock {
			continue
		}
		if !found || r.CreatedAt.After(best.CreatedAt) {
			best = r
			found = true
		}
	}
	if found {
		return best, true
	}
	best = records[0]
	for _, r := range records[1:] {
		if r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
	}
	return best, true
}

func toInventoryRecords(rows []repository.Inventory) []domain.InventoryRecord {
	out := make([]domain.InventoryRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.InventoryRecord{
			CombinationID:     r.CombinationID,
			Quantity:          r.Quantity,
			LowStockThreshold: r.LowStockThreshold,
			Status:            r.Status,
			CreatedAt:         fromPGTime(r.CreatedAt),
		})
	}
	return out
}
