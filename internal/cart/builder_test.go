package cart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vatcart/internal/cart"
	"vatcart/internal/domain"
	"vatcart/internal/tax"
)

func TestDecodeItem_Defaults(t *testing.T) {
	item, err := cart.DecodeItem(map[string]any{
		"label":        "consulting",
		"quantity":     2,
		"price":        "12.5",
		"tax_category": 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "consulting", item.Label)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 12.5, item.Price)
	assert.Equal(t, domain.TaxNormal, item.TaxCategory)
	assert.True(t, item.IsService)
	assert.Nil(t, item.Unit)
}

func TestDecodeItem_ExplicitGoodsWithUnit(t *testing.T) {
	item, err := cart.DecodeItem(map[string]any{
		"label":        "rental",
		"quantity":     3.0,
		"price":        40.0,
		"tax_category": 3.0,
		"is_service":   false,
		"unit":         1.0,
	})
	require.NoError(t, err)

	assert.False(t, item.IsService)
	assert.Equal(t, domain.TaxReduced, item.TaxCategory)
	require.NotNil(t, item.Unit)
	assert.Equal(t, domain.UnitHours, *item.Unit)
}

func TestDecodeItem_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"unknown category", map[string]any{"label": "x", "quantity": 1, "price": 1, "tax_category": 9}},
		{"unknown unit", map[string]any{"label": "x", "quantity": 1, "price": 1, "unit": 7}},
		{"non numeric price", map[string]any{"label": "x", "quantity": 1, "price": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cart.DecodeItem(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidCartData))
		})
	}
}

func TestFromMap_ComputesWhenTotalMissing(t *testing.T) {
	c, err := cart.FromMap(map[string]any{
		"is_b2b":             true,
		"is_intra_community": true,
		"is_tax_inclusive":   false,
		"country":            "de",
		"items": []any{
			map[string]any{"label": "widget", "quantity": 2, "price": 50, "tax_category": 1, "is_service": false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "DE", c.Context().Country)
	assert.InDelta(t, 100.0, c.Total().TaxExclusive, tolerance)
	assert.Equal(t, []string{tax.MentionGoodsIntraEU}, c.Mentions())
}

func TestFromMap_DefaultContext(t *testing.T) {
	c, err := cart.FromMap(map[string]any{
		"items": []any{
			map[string]any{"label": "audit", "quantity": 1, "price": 120, "tax_category": 1},
		},
	})
	require.NoError(t, err)

	ctx := c.Context()
	assert.True(t, ctx.IsTaxInclusive)
	assert.False(t, ctx.IsBusinessToBusiness)
	assert.Equal(t, domain.DefaultCountry, ctx.Country)
	assert.InDelta(t, 20.0, c.Total().TotalTax, tolerance)
}

func TestFromMap_KeepsSuppliedTotal(t *testing.T) {
	c, err := cart.FromMap(map[string]any{
		"country": "FR",
		"items": []any{
			map[string]any{"label": "a", "quantity": 1, "price": 100, "tax_category": 1},
		},
		"total": map[string]any{
			"tax_inclusive": 999.0,
			"tax_exclusive": 900.0,
			"total_tax":     99.0,
			"per_rate_tax":  map[string]any{"0.2": 99.0},
		},
		"mentions": []any{"imported mention"},
	})
	require.NoError(t, err)

	total := c.Total()
	assert.Equal(t, 999.0, total.TaxInclusive)
	assert.Equal(t, 900.0, total.TaxExclusive)
	assert.Equal(t, map[float64]float64{0.2: 99.0}, total.PerRateTax)
	assert.Equal(t, []string{"imported mention"}, c.Mentions())

	_, err = c.Compute()
	require.NoError(t, err)
	// default context is tax-inclusive, so the 100 price already carries the tax
	assert.InDelta(t, 100.0, c.Total().TaxInclusive, tolerance)
	assert.Empty(t, c.Mentions())
}

func TestFromMap_WeakTypedContext(t *testing.T) {
	c, err := cart.FromMap(map[string]any{
		"is_b2b":  "1",
		"country": " us ",
		"items":   []any{},
	})
	require.NoError(t, err)
	assert.True(t, c.Context().IsBusinessToBusiness)
	assert.Equal(t, "US", c.Context().Country)
	assert.Zero(t, c.Amount())
}

func TestFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"items not a list", map[string]any{"items": "nope"}},
		{"item not an object", map[string]any{"items": []any{42}}},
		{"bad breakdown key", map[string]any{"items": []any{}, "total": map[string]any{"per_rate_tax": map[string]any{"abc": 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cart.FromMap(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidCartData))
		})
	}
}

func TestFromJSON(t *testing.T) {
	body := []byte(`{
		"is_b2b": false,
		"is_tax_inclusive": true,
		"country": "FR",
		"items": [
			{"label": "shirt", "quantity": 1, "price": 120, "tax_category": 1, "is_service": false},
			{"label": "food", "quantity": 2, "price": 105.5, "tax_category": 3, "is_service": false}
		]
	}`)
	c, err := cart.FromJSON(body)
	require.NoError(t, err)
	assert.InDelta(t, 31.0, c.Total().TotalTax, tolerance)
	assert.Len(t, c.Items(), 2)

	_, err = cart.FromJSON([]byte(`{not json`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCartData))
}

func TestBuilder_Defaults(t *testing.T) {
	b := cart.NewBuilder(domain.CartContext{IsTaxInclusive: false, Country: "BE"},
		cart.WithTotalizeOptions(cart.WithZeroTaxClearsInclusive(false)))

	c, err := b.FromMap(map[string]any{
		"is_b2b": true,
		"items": []any{
			map[string]any{"label": "crate", "quantity": 1, "price": 80, "tax_category": 1, "is_service": false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "BE", c.Context().Country)
	assert.InDelta(t, 80.0, c.Total().TaxExclusive, tolerance)
	assert.InDelta(t, 96.0, c.Total().TaxInclusive, tolerance)
}
