package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"vatcart/internal/domain"
)

// inclusiveTaxPlaces is the precision tax is rounded to when it is extracted
// from a tax-inclusive subtotal.
const inclusiveTaxPlaces = 10

type totalizeOptions struct {
	zeroTaxClearsInclusive bool
}

// TotalizeOption customizes Totalize.
type TotalizeOption func(*totalizeOptions)

// WithZeroTaxClearsInclusive toggles the finalization rule that empties the
// breakdown and zeroes the tax-inclusive amount when no tax was collected.
// The rule is on by default. Turning it off leaves the tax-inclusive amount
// equal to the tax-exclusive one for tax-free carts.
func WithZeroTaxClearsInclusive(enabled bool) TotalizeOption {
	return func(o *totalizeOptions) { o.zeroTaxClearsInclusive = enabled }
}

// TaxFromExclusive returns the tax owed on a pre-tax subtotal. No rounding.
func TaxFromExclusive(subtotal, rate float64) float64 {
	return subtotal * rate
}

// TaxFromInclusive extracts the tax contained in a tax-inclusive subtotal,
// rounded half away from zero to 10 decimal places.
func TaxFromInclusive(subtotal, rate float64) float64 {
	tax := subtotal * (1 - 1/(1+rate))
	return decimal.NewFromFloat(tax).Round(inclusiveTaxPlaces).InexactFloat64()
}

// Totalize converts subtotals grouped by rate into a cart total. In
// PricingTaxExclusive mode subtotals are pre-tax; in PricingTaxInclusive mode
// they already contain tax. Buckets are processed in ascending rate order.
func Totalize(buckets map[float64]float64, mode domain.PricingMode, opts ...TotalizeOption) domain.CartTotal {
	o := totalizeOptions{zeroTaxClearsInclusive: true}
	for _, opt := range opts {
		opt(&o)
	}

	rates := make([]float64, 0, len(buckets))
	for r := range buckets {
		rates = append(rates, r)
	}
	sort.Float64s(rates)

	total := domain.NewCartTotal()
	for _, rate := range rates {
		subtotal := buckets[rate]
		var exclusive, inclusive, tax float64

		if mode == domain.PricingTaxInclusive {
			inclusive = subtotal
			exclusive = subtotal
			if rate > 0 {
				tax = TaxFromInclusive(subtotal, rate)
				exclusive = subtotal - tax
			}
		} else {
			exclusive = subtotal
			inclusive = subtotal
			if rate > 0 {
				tax = TaxFromExclusive(subtotal, rate)
				inclusive = subtotal + tax
			}
		}

		total.TaxInclusive += inclusive
		total.TaxExclusive += exclusive
		total.TotalTax += tax
		if rate > 0 {
			total.PerRateTax[rate] = tax
		}
	}

	if o.zeroTaxClearsInclusive && total.TotalTax == 0 {
		total.PerRateTax = map[float64]float64{}
		total.TaxInclusive = 0
	}

	return total
}
