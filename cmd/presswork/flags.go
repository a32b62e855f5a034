package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/presswork/internal/domain"
)

// parseVariants reads group_id=value_id pairs. A group may appear once.
func parseVariants(pairs []string) (domain.Selection, error) {
	sel := domain.Selection{}
	for _, pair := range pairs {
		g, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("variant %q: expected group_id=value_id", pair)
		}
		groupID, err := strconv.ParseInt(strings.TrimSpace(g), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("variant %q: bad group id", pair)
		}
		valueID, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("variant %q: bad value id", pair)
		}
		if _, dup := sel[groupID]; dup {
			return nil, fmt.Errorf("variant group %d given twice", groupID)
		}
		sel[groupID] = valueID
	}
	return sel, nil
}

// parseSize returns nil when neither dimension is given.
func parseSize(width, height string) (*domain.CustomSize, error) {
	if width == "" && height == "" {
		return nil, nil
	}
	if width == "" || height == "" {
		return nil, fmt.Errorf("width and height must be given together")
	}
	w, err := decimal.NewFromString(width)
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	h, err := decimal.NewFromString(height)
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	return &domain.CustomSize{Width: w, Height: h}, nil
}
