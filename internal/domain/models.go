package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultCountry is the seller/buyer country assumed when none is given.
const DefaultCountry = "FR"

// CartItem is a single line of a cart.
type CartItem struct {
	Label       string      `json:"label" mapstructure:"label"`
	Quantity    float64     `json:"quantity" mapstructure:"quantity"`
	Price       float64     `json:"price" mapstructure:"price"`
	Unit        *Unit       `json:"unit" mapstructure:"unit"`
	TaxCategory TaxCategory `json:"tax_category" mapstructure:"tax_category"`
	IsService   bool        `json:"is_service" mapstructure:"is_service"`
}

// NewCartItem returns an item with the defaults applied to raw input: no unit,
// no rate, sold as a service.
func NewCartItem() CartItem {
	return CartItem{TaxCategory: TaxNoRate, IsService: true}
}

// UnmarshalJSON decodes an item, treating a missing is_service as true.
func (i *CartItem) UnmarshalJSON(b []byte) error {
	type alias CartItem
	a := alias(NewCartItem())
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*i = CartItem(a)
	return nil
}

// LineAmount is quantity times unit price.
func (i CartItem) LineAmount() float64 {
	return i.Quantity * i.Price
}

// CartContext carries the transaction discriminators shared by every line.
type CartContext struct {
	IsBusinessToBusiness bool   `json:"is_b2b" mapstructure:"is_b2b"`
	IsTaxInclusive       bool   `json:"is_tax_inclusive" mapstructure:"is_tax_inclusive"`
	IsIntraCommunity     bool   `json:"is_intra_community" mapstructure:"is_intra_community"`
	Country              string `json:"country" mapstructure:"country"`
}

// DefaultCartContext is a B2C, tax-inclusive, domestic French sale.
func DefaultCartContext() CartContext {
	return CartContext{IsTaxInclusive: true, Country: DefaultCountry}
}

// PricingMode derives the totalization mode from the context.
func (c CartContext) PricingMode() PricingMode {
	if c.IsTaxInclusive {
		return PricingTaxInclusive
	}
	return PricingTaxExclusive
}

// CartTotal is the aggregated result of a cart computation.
// PerRateTax is keyed by the exact rate literal and never holds a zero rate.
type CartTotal struct {
	TaxInclusive float64
	TaxExclusive float64
	TotalTax     float64
	PerRateTax   map[float64]float64
}

// NewCartTotal returns an all-zero total with an empty breakdown.
func NewCartTotal() CartTotal {
	return CartTotal{PerRateTax: map[float64]float64{}}
}

// Rates returns the breakdown keys in ascending order.
func (t CartTotal) Rates() []float64 {
	rates := make([]float64, 0, len(t.PerRateTax))
	for r := range t.PerRateTax {
		rates = append(rates, r)
	}
	sort.Float64s(rates)
	return rates
}

// Clone returns a copy whose breakdown map is not shared with t.
func (t CartTotal) Clone() CartTotal {
	out := t
	out.PerRateTax = make(map[float64]float64, len(t.PerRateTax))
	for r, v := range t.PerRateTax {
		out.PerRateTax[r] = v
	}
	return out
}

type cartTotalJSON struct {
	TaxInclusive float64            `json:"tax_inclusive"`
	TaxExclusive float64            `json:"tax_exclusive"`
	TotalTax     float64            `json:"total_tax"`
	PerRateTax   map[string]float64 `json:"per_rate_tax"`
}

// FormatRate renders a rate as a breakdown key, e.g. 0.055 -> "0.055".
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// ParseRate is the inverse of FormatRate.
func ParseRate(s string) (float64, error) {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid rate key %q", ErrInvalidCartData, s)
	}
	return r, nil
}

// MarshalJSON encodes the breakdown with string keys since JSON objects cannot
// be keyed by floats.
func (t CartTotal) MarshalJSON() ([]byte, error) {
	out := cartTotalJSON{
		TaxInclusive: t.TaxInclusive,
		TaxExclusive: t.TaxExclusive,
		TotalTax:     t.TotalTax,
		PerRateTax:   make(map[string]float64, len(t.PerRateTax)),
	}
	for r, v := range t.PerRateTax {
		out.PerRateTax[FormatRate(r)] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *CartTotal) UnmarshalJSON(b []byte) error {
	var in cartTotalJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	total := NewCartTotal()
	total.TaxInclusive = in.TaxInclusive
	total.TaxExclusive = in.TaxExclusive
	total.TotalTax = in.TotalTax
	for k, v := range in.PerRateTax {
		r, err := ParseRate(k)
		if err != nil {
			return err
		}
		total.PerRateTax[r] = v
	}
	*t = total
	return nil
}

// Quote is a persisted snapshot of a computed cart.
type Quote struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	Country          string          `db:"country" json:"country"`
	IsB2B            bool            `db:"is_b2b" json:"is_b2b"`
	IsTaxInclusive   bool            `db:"is_tax_inclusive" json:"is_tax_inclusive"`
	IsIntraCommunity bool            `db:"is_intra_community" json:"is_intra_community"`
	Items            json.RawMessage `db:"items" json:"items"`
	Total            json.RawMessage `db:"total" json:"total"`
	Mentions         json.RawMessage `db:"mentions" json:"mentions"`
	Amount           float64         `db:"amount" json:"amount"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Context rebuilds the cart context the quote was computed with.
func (q *Quote) Context() CartContext {
	return CartContext{
		IsBusinessToBusiness: q.IsB2B,
		IsTaxInclusive:       q.IsTaxInclusive,
		IsIntraCommunity:     q.IsIntraCommunity,
		Country:              q.Country,
	}
}

// DecodeItems unmarshals the stored line items.
func (q *Quote) DecodeItems() ([]CartItem, error) {
	var items []CartItem
	if len(q.Items) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(q.Items, &items); err != nil {
		return nil, fmt.Errorf("decoding quote items: %w", err)
	}
	return items, nil
}

// DecodeTotal unmarshals the stored total.
func (q *Quote) DecodeTotal() (CartTotal, error) {
	total := NewCartTotal()
	if len(q.Total) == 0 {
		return total, nil
	}
	if err := json.Unmarshal(q.Total, &total); err != nil {
		return CartTotal{}, fmt.Errorf("decoding quote total: %w", err)
	}
	return total, nil
}

// DecodeMentions unmarshals the stored legal mentions.
func (q *Quote) DecodeMentions() ([]string, error) {
	mentions := []string{}
	if len(q.Mentions) == 0 {
		return mentions, nil
	}
	if err := json.Unmarshal(q.Mentions, &mentions); err != nil {
		return nil, fmt.Errorf("decoding quote mentions: %w", err)
	}
	return mentions, nil
}
