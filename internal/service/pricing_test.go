package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/presswork/internal/domain"
)

func bannerPricing() *domain.SizePricing {
	return &domain.SizePricing{
		MinWidth:  dec("12"),
		MaxWidth:  dec("120"),
		MinHeight: dec("12"),
		MaxHeight: dec("60"),
		Step:      dec("6"),
		StepPrice: dec("2.50"),
	}
}

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		name      string
		sel       domain.Selection
		qty       int32
		size      *domain.CustomSize
		pricing   *domain.SizePricing
		wantUnit  string
		wantTotal string
	}{
		{
			name:      "base plus deltas times quantity",
			sel:       domain.Selection{groupSize: valueLarge, groupFinish: valueMatte},
			qty:       3,
			wantUnit:  "125.00",
			wantTotal: "375.00",
		},
		{
			name:      "zero deltas",
			sel:       domain.Selection{groupSize: valueSmall, groupFinish: valueGloss},
			qty:       1,
			wantUnit:  "100.00",
			wantTotal: "100.00",
		},
		{
			name:      "unknown value adds nothing",
			sel:       domain.Selection{groupSize: 999},
			qty:       2,
			wantUnit:  "100.00",
			wantTotal: "200.00",
		},
		{
			name:      "size surcharge",
			sel:       domain.Selection{groupSize: valueSmall, groupFinish: valueGloss},
			qty:       2,
			size:      &domain.CustomSize{Width: dec("25"), Height: dec("12")},
			pricing:   bannerPricing(),
			wantUnit:  "107.50",
			wantTotal: "215.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := CalculatePrice(dec("100"), stickerGroups(), tt.sel, tt.qty, tt.size, tt.pricing)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnit, price.Unit.StringFixed(2))
			assert.Equal(t, tt.wantTotal, price.Total.StringFixed(2))
			assert.Equal(t, tt.qty, price.Quantity)
		})
	}
}

func TestCalculatePrice_InvalidQuantity(t *testing.T) {
	for _, qty := range []int32{0, -1} {
		_, err := CalculatePrice(dec("100"), stickerGroups(), nil, qty, nil, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

func TestCalculatePrice_MonotonicInQuantity(t *testing.T) {
	sel := domain.Selection{groupSize: valueLarge, groupFinish: valueMatte}
	prev := decimal.Zero
	for qty := int32(1); qty <= 50; qty++ {
		price, err := CalculatePrice(dec("100"), stickerGroups(), sel, qty, nil, nil)
		require.NoError(t, err)
		assert.True(t, price.Total.GreaterThanOrEqual(prev), "qty %d", qty)
		assert.True(t, price.Total.Equal(price.Unit.Mul(decimal.NewFromInt32(qty))))
		prev = price.Total
	}
}

func TestCalculatePrice_PriceDeltaShiftsTotal(t *testing.T) {
	sel := domain.Selection{groupSize: valueLarge, groupFinish: valueMatte}

	tests := []struct {
		name      string
		group     int
		value     int64
		bump      string
		qty       int32
		wantShift string
	}{
		{name: "selected size value", group: 0, value: valueLarge, bump: "3.25", qty: 4, wantShift: "13.00"},
		{name: "selected finish value", group: 1, value: valueMatte, bump: "0.10", qty: 7, wantShift: "0.70"},
		{name: "negative bump", group: 1, value: valueMatte, bump: "-2", qty: 3, wantShift: "-6.00"},
		{name: "unselected value", group: 0, value: valueSmall, bump: "50", qty: 5, wantShift: "0.00"},
		{name: "unselected finish", group: 1, value: valueGloss, bump: "1", qty: 2, wantShift: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := stickerGroups()
			before, err := CalculatePrice(dec("100"), groups, sel, tt.qty, nil, nil)
			require.NoError(t, err)

			values := groups[tt.group].Values
			for i := range values {
				if values[i].ID == tt.value {
					values[i].PriceDelta = values[i].PriceDelta.Add(dec(tt.bump))
				}
			}
			after, err := CalculatePrice(dec("100"), groups, sel, tt.qty, nil, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.wantShift, after.Total.Sub(before.Total).StringFixed(2))
			assert.True(t, after.Total.Sub(before.Total).Equal(after.Unit.Sub(before.Unit).Mul(decimal.NewFromInt32(tt.qty))))
		})
	}
}

func TestSizeSurcharge(t *testing.T) {
	tests := []struct {
		name      string
		size      *domain.CustomSize
		pricing   *domain.SizePricing
		want      string
		wantField string
		wantErr   error
	}{
		{name: "no size requested", want: "0.00"},
		{name: "minimum size", size: &domain.CustomSize{Width: dec("12"), Height: dec("12")}, pricing: bannerPricing(), want: "0.00"},
		{name: "partial step rounds up", size: &domain.CustomSize{Width: dec("13"), Height: dec("12")}, pricing: bannerPricing(), want: "2.50"},
		{name: "both dimensions", size: &domain.CustomSize{Width: dec("24"), Height: dec("24")}, pricing: bannerPricing(), want: "10.00"},
		{name: "width too small", size: &domain.CustomSize{Width: dec("6"), Height: dec("12")}, pricing: bannerPricing(), wantField: "width"},
		{name: "height too large", size: &domain.CustomSize{Width: dec("12"), Height: dec("61")}, pricing: bannerPricing(), wantField: "height"},
		{name: "size not offered", size: &domain.CustomSize{Width: dec("12"), Height: dec("12")}, wantErr: ErrSizeNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SizeSurcharge(tt.size, tt.pricing)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				require.Error(t, err)
				assert.Contains(t, domain.GetValidationFields(err), tt.wantField)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.StringFixed(2))
			}
		})
	}
}
