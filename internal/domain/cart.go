package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product + quantity + variant signature in a user's cart.
type CartLine struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ProductID  uuid.UUID
	Quantity   int32
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Route      string
	Variants   []CartVariant
	Uploads    []UploadedFile
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValueIDs returns the line's variant signature.
func (l CartLine) ValueIDs() []int64 {
	ids := make([]int64, 0, len(l.Variants))
	for _, v := range l.Variants {
		ids = append(ids, v.VariantValueID)
	}
	return ids
}

// CartVariant snapshots one selected value and its delta at add time.
type CartVariant struct {
	VariantValueID int64
	PriceDelta     decimal.Decimal
}

// MaxLineQuantity caps a cart line's quantity, after merging included.
const MaxLineQuantity = 9999

type ReconcileMode string

const (
	ModeEdit   ReconcileMode = "edit"
	ModeMerge  ReconcileMode = "merge"
	ModeInsert ReconcileMode = "insert"
)

// AddToCartRequest is the input of a reconciliation. EditLineID switches the
// reconciler into edit mode.
type AddToCartRequest struct {
	UserID     uuid.UUID
	ProductID  uuid.UUID
	Selection  Selection
	Quantity   int32
	Size       *CustomSize
	Uploads    []UploadRef
	EditLineID uuid.NullUUID
	Route      string
}

type ReconcileResult struct {
	Line     CartLine
	Mode     ReconcileMode
	Attached int
}

// CartService reconciles configurator selections into cart lines.
type CartService interface {
	AddToCart(ctx context.Context, req AddToCartRequest) (*ReconcileResult, error)
	ListCart(ctx context.Context, userID uuid.UUID) ([]CartLine, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error
	EditPayload(ctx context.Context, userID, lineID uuid.UUID) (*EditPayload, error)
}
