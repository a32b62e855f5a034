package service

import (
	"strings"

	"github.com/dukerupert/presswork/internal/domain"
)

// RestoreSelection maps payload variants onto groups. Entries are placed by
// variant value id; an id the catalog no longer knows falls back to matching
// group and value names case-insensitively. The first entry for a group wins.
func RestoreSelection(groups []domain.VariantGroup, payload domain.EditPayload) domain.RestoredSelection {
	out := domain.RestoredSelection{
		CartLineID: payload.CartLineID,
		Quantity:   payload.Quantity,
		Selection:  domain.Selection{},
	}

	owner := make(map[int64]int64)
	for _, g := range groups {
		for _, v := range g.Values {
			owner[v.ID] = g.ID
		}
	}

	for _, ev := range payload.Variants {
		if groupID, ok := owner[ev.VariantValueID]; ok && ev.VariantValueID != 0 {
			if _, taken := out.Selection[groupID]; !taken {
				out.Selection[groupID] = ev.VariantValueID
			}
			continue
		}

		groupID, valueID, ok := matchByName(groups, ev.Group, ev.Value)
		if !ok {
			out.Unmatched = append(out.Unmatched, ev)
			continue
		}
		if _, taken := out.Selection[groupID]; taken {
			continue
		}
		out.Selection[groupID] = valueID
		out.Fuzzy++
	}
	return out
}

func matchByName(groups []domain.VariantGroup, group, value string) (int64, int64, bool) {
	group = normalizeName(group)
	value = normalizeName(value)
	if group == "" || value == "" {
		return 0, 0, false
	}
	for _, g := range groups {
		if normalizeName(g.Name) != group {
			continue
		}
		for _, v := range g.Values {
			if normalizeName(v.Name) == value {
				return g.ID, v.ID, true
			}
		}
	}
	return 0, 0, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
