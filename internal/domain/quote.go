package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price is derived on every selection or quantity change and never cached.
type Price struct {
	Unit      decimal.Decimal
	Surcharge decimal.Decimal
	Total     decimal.Decimal
	Quantity  int32
}

type QuoteRequest struct {
	ProductID uuid.UUID
	Selection Selection
	Quantity  int32
	Size      *CustomSize
}

// Quote is what the configurator shows next to the add-to-cart control.
type Quote struct {
	Price    Price
	Stock    StockLevel
	Complete bool
}

type QuoteService interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}
