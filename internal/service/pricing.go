package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/presswork/internal/domain"
)

// CalculatePrice computes unit = base + Σ deltas + size surcharge and
// total = unit × quantity. Selected ids the catalog does not know add nothing.
func CalculatePrice(base decimal.Decimal, groups []domain.VariantGroup, sel domain.Selection, quantity int32, size *domain.CustomSize, pricing *domain.SizePricing) (domain.Price, error) {
	if quantity < 1 {
		return domain.Price{}, domain.ErrInvalidQuantity
	}

	surcharge, err := SizeSurcharge(size, pricing)
	if err != nil {
		return domain.Price{}, err
	}

	unit := base
	for _, v := range selectedValues(groups, sel) {
		unit = unit.Add(v.PriceDelta)
	}
	unit = unit.Add(surcharge)

	return domain.Price{
		Unit:      unit,
		Surcharge: surcharge,
		Total:     unit.Mul(decimal.NewFromInt32(quantity)),
		Quantity:  quantity,
	}, nil
}

// SizeSurcharge prices each started step above the minimum width and height.
// No requested size means the minimum size.
func SizeSurcharge(size *domain.CustomSize, pricing *domain.SizePricing) (decimal.Decimal, error) {
	if size == nil {
		return decimal.Zero, nil
	}
	if pricing == nil {
		return decimal.Zero, ErrSizeNotOffered
	}

	if size.Width.LessThan(pricing.MinWidth) || size.Width.GreaterThan(pricing.MaxWidth) {
		return decimal.Zero, domain.NewValidationError("price.calculate", "width",
			fmt.Sprintf("Width must be between %s and %s", pricing.MinWidth, pricing.MaxWidth))
	}
	if size.Height.LessThan(pricing.MinHeight) || size.Height.GreaterThan(pricing.MaxHeight) {
		return decimal.Zero, domain.NewValidationError("price.calculate", "height",
			fmt.Sprintf("Height must be between %s and %s", pricing.MinHeight, pricing.MaxHeight))
	}

	steps := size.Width.Sub(pricing.MinWidth).Div(pricing.Step).Ceil().
		Add(size.Height.Sub(pricing.MinHeight).Div(pricing.Step).Ceil())
	return steps.Mul(pricing.StepPrice), nil
}
