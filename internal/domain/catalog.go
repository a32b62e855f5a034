package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is read-only from the storefront's point of view.
type Product struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Category  string
	BasePrice decimal.Decimal
	ImageKey  string
	CreatedAt time.Time
}

// VariantGroup is one configurable dimension of a product (Color, Size, Material).
type VariantGroup struct {
	ID         int64
	Name       string
	InputStyle string
	Values     []VariantValue
}

// Value returns the value with the given id if it belongs to the group.
func (g VariantGroup) Value(id int64) (VariantValue, bool) {
	for _, v := range g.Values {
		if v.ID == id {
			return v, true
		}
	}
	return VariantValue{}, false
}

type VariantValue struct {
	ID         int64
	GroupID    int64
	Name       string
	PriceDelta decimal.Decimal
	IsDefault  bool
}

// Selection maps a variant group id to the chosen value id.
type Selection map[int64]int64

// Clone returns an independent copy. A nil selection clones to an empty map.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ValueIDs returns the selected value ids sorted ascending.
func (s Selection) ValueIDs() []int64 {
	ids := make([]int64, 0, len(s))
	for _, v := range s {
		ids = append(ids, v)
	}
	slices.Sort(ids)
	return ids
}

// Complete reports whether every group that offers values has exactly one
// selected value belonging to it, and nothing outside those groups is selected.
func (s Selection) Complete(groups []VariantGroup) bool {
	required := 0
	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		required++
		id, ok := s[g.ID]
		if !ok {
			return false
		}
		if _, ok := g.Value(id); !ok {
			return false
		}
	}
	return len(s) == required
}

// Combination is a precomputed purchasable set of variant value ids.
// ValueIDs is kept sorted ascending.
type Combination struct {
	ID       int64
	ValueIDs []int64
}

type InventoryRecord struct {
	CombinationID     int64
	Quantity          int32
	LowStockThreshold int32
	Status            string
	CreatedAt         time.Time
}

const InventoryStatusInStock = "in_stock"

// StockLevel is the outcome of a stock lookup. Resolved is false while the
// selection is incomplete; a resolved level with Matched false is a real
// zero-quantity state.
type StockLevel struct {
	Resolved      bool
	Matched       bool
	CombinationID int64
	Quantity      int32
	LowStock      bool
}

// QuantityOrNil returns nil for an unresolved level so JSON renders null.
func (s StockLevel) QuantityOrNil() *int32 {
	if !s.Resolved {
		return nil
	}
	q := s.Quantity
	return &q
}

// SameValueSet reports whether a and b hold the same ids regardless of order.
func SameValueSet(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// ProductFilter narrows the product search page.
type ProductFilter struct {
	Query    string
	Category string
	Limit    int32
}

// Configurator bundles everything a product page needs to render its options.
type Configurator struct {
	Product  Product
	Groups   []VariantGroup
	Defaults Selection
	ImageURL string
	Profile  ProductProfile
}

// CatalogService loads products and their variant catalogs.
type CatalogService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	LoadVariants(ctx context.Context, productID uuid.UUID) ([]VariantGroup, error)
	GetConfigurator(ctx context.Context, productID uuid.UUID, restored Selection) (*Configurator, error)
}

// StockService resolves a selection to an inventory quantity.
type StockService interface {
	Resolve(ctx context.Context, product *Product, groups []VariantGroup, sel Selection) StockLevel
}
