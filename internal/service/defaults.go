package service

import (
	"cmp"
	"slices"

	"github.com/dukerupert/presswork/internal/domain"
)

// ResolveDefaults fills every group missing from current with its default
// value, or its first value when none is flagged. Entries already present,
// such as those restored from a cart edit, are never replaced. Running it
// again on its own output returns an equal map.
func ResolveDefaults(groups []domain.VariantGroup, current domain.Selection) domain.Selection {
	sel := current.Clone()
	for _, g := range groups {
		if _, ok := sel[g.ID]; ok {
			continue
		}
		if len(g.Values) == 0 {
			continue
		}
		choice := g.Values[0].ID
		for _, v := range g.Values {
			if v.IsDefault {
				choice = v.ID
				break
			}
		}
		sel[g.ID] = choice
	}
	return sel
}

// validateSelection rejects entries that name an unknown group or a value
// from a different group. Missing groups are not an error here.
func validateSelection(op string, groups []domain.VariantGroup, sel domain.Selection) error {
	byID := make(map[int64]domain.VariantGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	for groupID, valueID := range sel {
		g, ok := byID[groupID]
		if !ok {
			return errUnknownVariant(op)
		}
		if _, ok := g.Value(valueID); !ok {
			return errUnknownVariant(op)
		}
	}
	return nil
}

// selectedValues returns the chosen values ordered by value id.
func selectedValues(groups []domain.VariantGroup, sel domain.Selection) []domain.VariantValue {
	var out []domain.VariantValue
	for _, g := range groups {
		id, ok := sel[g.ID]
		if !ok {
			continue
		}
		if v, ok := g.Value(id); ok {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b domain.VariantValue) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
