package tax

import (
	"fmt"

	"vatcart/internal/domain"
)

// Resolution is the outcome of resolving one line.
type Resolution struct {
	Rate    float64 `json:"rate"`
	Mention string  `json:"mention,omitempty"`
	RuleKey string  `json:"rule_key"`
	Table   string  `json:"table"`
}

// Resolver applies the decision table to cart lines. It holds no mutable
// state and may be shared between goroutines.
type Resolver struct {
	tables TableSet
	rules  []Rule
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithTables replaces the rate tables the resolver reads from.
func WithTables(ts TableSet) ResolverOption {
	return func(r *Resolver) { r.tables = ts }
}

// NewResolver creates a Resolver over the default tables and rules.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{tables: DefaultTables(), rules: rules}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Default returns the shared resolver over the fixed French tables.
func Default() *Resolver { return defaultResolver }

// Resolve returns the rate applying to item sold under ctx and the legal
// mention the matched rule requires, if any.
func (r *Resolver) Resolve(item domain.CartItem, ctx domain.CartContext) (Resolution, error) {
	rule := Match(r.rules, Classify(item, ctx))
	table := r.tables.Get(rule.Table)
	rate := table.Rate(item.TaxCategory)

	if rate < 0 {
		return Resolution{}, fmt.Errorf("%w: %v given for %q (rule %s, table %s)",
			domain.ErrInvalidTaxRate, rate, item.Label, rule.Key, table.Name())
	}

	return Resolution{
		Rate:    rate,
		Mention: rule.Mention,
		RuleKey: rule.Key,
		Table:   table.Name(),
	}, nil
}
