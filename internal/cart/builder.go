package cart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"vatcart/internal/domain"
)

// Builder constructs carts from untyped key/value data such as decoded JSON
// request bodies. Values are converted into typed items and context before
// they reach the cart.
type Builder struct {
	defaults domain.CartContext
	opts     []Option
}

// NewBuilder returns a Builder filling missing context fields from defaults.
func NewBuilder(defaults domain.CartContext, opts ...Option) *Builder {
	return &Builder{defaults: defaults, opts: opts}
}

// FromMap builds a cart with the default context (tax-inclusive, FR).
func FromMap(raw map[string]any, opts ...Option) (*Cart, error) {
	return NewBuilder(domain.DefaultCartContext(), opts...).FromMap(raw)
}

// FromJSON decodes a JSON object and builds a cart from it.
func FromJSON(data []byte, opts ...Option) (*Cart, error) {
	return NewBuilder(domain.DefaultCartContext(), opts...).FromJSON(data)
}

// FromJSON decodes a JSON object and builds a cart from it.
func (b *Builder) FromJSON(data []byte) (*Cart, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCartData, err)
	}
	return b.FromMap(raw)
}

// FromMap builds a cart from raw data. Recognized keys are the context fields
// (is_b2b, is_tax_inclusive, is_intra_community, country), items, total and
// mentions. When no total is supplied the cart is computed immediately;
// otherwise the supplied total and mentions are kept as given.
func (b *Builder) FromMap(raw map[string]any) (*Cart, error) {
	ctx, err := b.DecodeContext(raw)
	if err != nil {
		return nil, err
	}

	var items []domain.CartItem
	if rawItems, ok := raw["items"]; ok && rawItems != nil {
		list, ok := rawItems.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: items must be a list, got %T", domain.ErrInvalidCartData, rawItems)
		}
		items = make([]domain.CartItem, 0, len(list))
		for i, ri := range list {
			item, err := decodeItemValue(ri)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: %w", i, err)
			}
			items = append(items, item)
		}
	}

	c := New(ctx, items, b.opts...)

	rawTotal, hasTotal := raw["total"]
	if !hasTotal || rawTotal == nil {
		if _, err := c.Compute(); err != nil {
			return nil, err
		}
		return c, nil
	}

	total, err := DecodeTotal(rawTotal)
	if err != nil {
		return nil, err
	}
	c.total = total

	if rawMentions, ok := raw["mentions"]; ok && rawMentions != nil {
		var mentions []string
		if err := decode(rawMentions, &mentions); err != nil {
			return nil, fmt.Errorf("mentions: %w", err)
		}
		c.mentions = mentions
	}
	return c, nil
}

// DecodeContext reads the context fields of raw over the builder defaults.
// Country codes are trimmed and upper-cased.
func (b *Builder) DecodeContext(raw map[string]any) (domain.CartContext, error) {
	ctx := b.defaults
	if err := decode(raw, &ctx); err != nil {
		return domain.CartContext{}, err
	}
	ctx.Country = strings.ToUpper(strings.TrimSpace(ctx.Country))
	if ctx.Country == "" {
		ctx.Country = domain.DefaultCountry
	}
	return ctx, nil
}

// DecodeItem converts a raw mapping into an item. is_service defaults to true.
func DecodeItem(raw map[string]any) (domain.CartItem, error) {
	return decodeItemValue(raw)
}

func decodeItemValue(raw any) (domain.CartItem, error) {
	if item, ok := raw.(domain.CartItem); ok {
		return item, nil
	}
	if _, ok := raw.(map[string]any); !ok {
		return domain.CartItem{}, fmt.Errorf("%w: item must be an object, got %T", domain.ErrInvalidCartData, raw)
	}

	item := domain.NewCartItem()
	if err := decode(raw, &item); err != nil {
		return domain.CartItem{}, err
	}
	if !item.TaxCategory.Valid() {
		return domain.CartItem{}, fmt.Errorf("%w: unknown tax category %d", domain.ErrInvalidCartData, int(item.TaxCategory))
	}
	if item.Unit != nil && !item.Unit.Valid() {
		return domain.CartItem{}, fmt.Errorf("%w: unknown unit %d", domain.ErrInvalidCartData, int(*item.Unit))
	}
	return item, nil
}

type rawTotal struct {
	TaxInclusive float64            `mapstructure:"tax_inclusive"`
	TaxExclusive float64            `mapstructure:"tax_exclusive"`
	TotalTax     float64            `mapstructure:"total_tax"`
	PerRateTax   map[string]float64 `mapstructure:"per_rate_tax"`
}

// DecodeTotal converts a raw mapping into a cart total. Breakdown keys are
// rates written as decimal strings.
func DecodeTotal(raw any) (domain.CartTotal, error) {
	if t, ok := raw.(domain.CartTotal); ok {
		return t.Clone(), nil
	}

	var in rawTotal
	if err := decode(raw, &in); err != nil {
		return domain.CartTotal{}, fmt.Errorf("total: %w", err)
	}

	total := domain.NewCartTotal()
	total.TaxInclusive = in.TaxInclusive
	total.TaxExclusive = in.TaxExclusive
	total.TotalTax = in.TotalTax
	for k, v := range in.PerRateTax {
		r, err := domain.ParseRate(k)
		if err != nil {
			return domain.CartTotal{}, err
		}
		total.PerRateTax[r] = v
	}
	return total, nil
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCartData, err)
	}
	return nil
}
