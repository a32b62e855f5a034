package domain

import "github.com/shopspring/decimal"

// Stock match policies.
const (
	StockMatchExact  = "exact"
	StockMatchSubset = "subset"
)

// ProductProfile carries the per-product differences that used to live in
// copy-pasted page components.
type ProductProfile struct {
	ImageFallback string
	StockMatch    string
	Size          *SizePricing
}

// SizePricing bounds custom dimensions and prices each started step above
// the minimum.
type SizePricing struct {
	MinWidth  decimal.Decimal
	MaxWidth  decimal.Decimal
	MinHeight decimal.Decimal
	MaxHeight decimal.Decimal
	Step      decimal.Decimal
	StepPrice decimal.Decimal
}

// CustomSize is a requested width and height in the profile's unit.
type CustomSize struct {
	Width  decimal.Decimal
	Height decimal.Decimal
}

// ProfileSource looks up a profile by product slug, falling back to defaults.
type ProfileSource interface {
	Profile(slug string) ProductProfile
}
