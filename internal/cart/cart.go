package cart

import (
	"fmt"
	"strings"

	"vatcart/internal/domain"
	"vatcart/internal/tax"
)

// Line is the resolution trace of one item after Compute.
type Line struct {
	Item    domain.CartItem `json:"item"`
	Amount  float64         `json:"amount"`
	Rate    float64         `json:"rate"`
	RuleKey string          `json:"rule_key,omitempty"`
	Table   string          `json:"table,omitempty"`
	Mention string          `json:"mention,omitempty"`
	Skipped bool            `json:"skipped"`
}

// Cart owns a list of items and the context they are sold under, and caches
// the result of the last Compute. A Cart must not be used from several
// goroutines without external locking.
type Cart struct {
	ctx      domain.CartContext
	items    []domain.CartItem
	total    domain.CartTotal
	mentions []string
	lines    []Line

	resolver     *tax.Resolver
	totalizeOpts []TotalizeOption
}

// Option customizes a Cart.
type Option func(*Cart)

// WithResolver replaces the default tax resolver.
func WithResolver(r *tax.Resolver) Option {
	return func(c *Cart) { c.resolver = r }
}

// WithTotalizeOptions forwards options to Totalize on every Compute.
func WithTotalizeOptions(opts ...TotalizeOption) Option {
	return func(c *Cart) { c.totalizeOpts = append(c.totalizeOpts, opts...) }
}

// New creates a cart. The total is not computed until Compute is called.
// The country code is trimmed and upper-cased; an empty code means FR.
func New(ctx domain.CartContext, items []domain.CartItem, opts ...Option) *Cart {
	ctx.Country = strings.ToUpper(strings.TrimSpace(ctx.Country))
	if ctx.Country == "" {
		ctx.Country = domain.DefaultCountry
	}
	c := &Cart{
		ctx:      ctx,
		items:    append([]domain.CartItem(nil), items...),
		total:    domain.NewCartTotal(),
		mentions: []string{},
		resolver: tax.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute resolves every line with a positive quantity, groups line amounts
// by rate and replaces the cached total and mentions. On error the previous
// total and mentions are left untouched.
func (c *Cart) Compute() (*Cart, error) {
	buckets := make(map[float64]float64)
	mentions := []string{}
	seen := make(map[string]bool)
	lines := make([]Line, 0, len(c.items))

	for i := range c.items {
		item := c.items[i]
		if item.Quantity <= 0 {
			lines = append(lines, Line{Item: item, Skipped: true})
			continue
		}

		res, err := c.resolver.Resolve(item, c.ctx)
		if err != nil {
			return c, fmt.Errorf("computing line %d: %w", i, err)
		}

		amount := item.LineAmount()
		buckets[res.Rate] += amount

		if res.Mention != "" && !seen[res.Mention] {
			seen[res.Mention] = true
			mentions = append(mentions, res.Mention)
		}

		lines = append(lines, Line{
			Item:    item,
			Amount:  amount,
			Rate:    res.Rate,
			RuleKey: res.RuleKey,
			Table:   res.Table,
			Mention: res.Mention,
		})
	}

	c.total = Totalize(buckets, c.ctx.PricingMode(), c.totalizeOpts...)
	c.mentions = mentions
	c.lines = lines
	return c, nil
}

// Total returns a copy of the last computed total.
func (c *Cart) Total() domain.CartTotal {
	return c.total.Clone()
}

// Mentions returns the deduplicated legal mentions in first-seen order.
func (c *Cart) Mentions() []string {
	return append([]string{}, c.mentions...)
}

// Lines returns the per-item trace of the last Compute.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Amount returns the tax-inclusive amount, or the tax-exclusive amount when
// the former is zero (which is always the case for tax-free carts).
func (c *Cart) Amount() float64 {
	if c.total.TaxInclusive != 0 {
		return c.total.TaxInclusive
	}
	return c.total.TaxExclusive
}

// Context returns the sale context.
func (c *Cart) Context() domain.CartContext { return c.ctx }

// Items returns a copy of the item list.
func (c *Cart) Items() []domain.CartItem {
	return append([]domain.CartItem(nil), c.items...)
}

// SetItems replaces the item list. The total is stale until Compute is called.
func (c *Cart) SetItems(items []domain.CartItem) {
	c.items = append([]domain.CartItem(nil), items...)
}

// AddItem appends an item. The total is stale until Compute is called.
func (c *Cart) AddItem(item domain.CartItem) {
	c.items = append(c.items, item)
}

// Snapshot is the serializable view of a computed cart.
type Snapshot struct {
	Context  domain.CartContext `json:"context"`
	Items    []domain.CartItem  `json:"items"`
	Lines    []Line             `json:"lines"`
	Total    domain.CartTotal   `json:"total"`
	Mentions []string           `json:"mentions"`
	Amount   float64            `json:"amount"`
}

// Snapshot captures the current state of the cart.
func (c *Cart) Snapshot() Snapshot {
	lines := c.Lines()
	if lines == nil {
		lines = []Line{}
	}
	items := c.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return Snapshot{
		Context:  c.ctx,
		Items:    items,
		Lines:    lines,
		Total:    c.Total(),
		Mentions: c.Mentions(),
		Amount:   c.Amount(),
	}
}
