package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/repository"
)

// Store is the persistence surface the services need: the query set plus a
// way to run several queries atomically. *postgres.Store satisfies it.
type Store interface {
	repository.Querier
	ExecTx(ctx context.Context, fn func(q repository.Querier) error) error
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

func pgNullUUID(id uuid.NullUUID) pgtype.UUID {
	if !id.Valid {
		return pgtype.UUID{}
	}
	return pgUUID(id.UUID)
}

func fromPGUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

func fromPGNullUUID(id pgtype.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: uuid.UUID(id.Bytes), Valid: id.Valid}
}

func fromPGTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func decimalToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func toDomainProduct(p repository.Product) domain.Product {
	return domain.Product{
		ID:        fromPGUUID(p.ID),
		Name:      p.Name,
		Slug:      p.Slug,
		Category:  p.Category,
		BasePrice: centsToDecimal(p.BasePriceCents),
		ImageKey:  p.ImageKey,
		CreatedAt: fromPGTime(p.CreatedAt),
	}
}

func toDomainCartLine(l repository.CartLine, variants []repository.CartLineVariant) domain.CartLine {
	line := domain.CartLine{
		ID:         fromPGUUID(l.ID),
		UserID:     fromPGUUID(l.UserID),
		ProductID:  fromPGUUID(l.ProductID),
		Quantity:   l.Quantity,
		UnitPrice:  centsToDecimal(l.UnitPriceCents),
		TotalPrice: centsToDecimal(l.TotalPriceCents),
		Route:      l.Route,
		CreatedAt:  fromPGTime(l.CreatedAt),
		UpdatedAt:  fromPGTime(l.UpdatedAt),
		Variants:   make([]domain.CartVariant, 0, len(variants)),
	}
	for _, v := range variants {
		line.Variants = append(line.Variants, domain.CartVariant{
			VariantValueID: v.VariantValueID,
			PriceDelta:     centsToDecimal(v.PriceDeltaCents),
		})
	}
	return line
}

func variantValueIDs(rows []repository.CartLineVariant) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.VariantValueID)
	}
	return ids
}
