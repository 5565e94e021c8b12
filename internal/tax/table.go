package tax

import "vatcart/internal/domain"

// RateTable maps tax categories to rate fractions. Its contents are private to
// the package, so a table handed out by value cannot be altered by callers.
type RateTable struct {
	name  string
	rates map[domain.TaxCategory]float64
}

// NewRateTable builds a table from a copy of rates.
func NewRateTable(name string, rates map[domain.TaxCategory]float64) RateTable {
	cp := make(map[domain.TaxCategory]float64, len(rates))
	for c, r := range rates {
		cp[c] = r
	}
	return RateTable{name: name, rates: cp}
}

// Name identifies the table in resolution traces.
func (t RateTable) Name() string { return t.name }

// Lookup returns the rate for c and whether the table defines it.
func (t RateTable) Lookup(c domain.TaxCategory) (float64, bool) {
	r, ok := t.rates[c]
	return r, ok
}

// Rate returns the rate for c, or 0 when the table has no entry (NoRate).
func (t RateTable) Rate(c domain.TaxCategory) float64 {
	return t.rates[c]
}

// Entries returns a copy of the table.
func (t RateTable) Entries() map[domain.TaxCategory]float64 {
	out := make(map[domain.TaxCategory]float64, len(t.rates))
	for c, r := range t.rates {
		out[c] = r
	}
	return out
}

var (
	metropolitan = NewRateTable("metropolitan", map[domain.TaxCategory]float64{
		domain.TaxNormal:       0.20,
		domain.TaxIntermediate: 0.10,
		domain.TaxReduced:      0.055,
		domain.TaxSpecial:      0.021,
	})
	overseas = NewRateTable("overseas", map[domain.TaxCategory]float64{
		domain.TaxNormal:       0.085,
		domain.TaxIntermediate: 0.021,
		domain.TaxReduced:      0.021,
		domain.TaxSpecial:      0.0175,
	})
	exempt = NewRateTable("exempt", map[domain.TaxCategory]float64{
		domain.TaxNormal:       0,
		domain.TaxIntermediate: 0,
		domain.TaxReduced:      0,
		domain.TaxSpecial:      0,
	})
)

// Metropolitan is the mainland France table.
func Metropolitan() RateTable { return metropolitan }

// Overseas is the table for Guadeloupe, Martinique and Réunion.
func Overseas() RateTable { return overseas }

// Exempt zero-rates every category.
func Exempt() RateTable { return exempt }

// TableKind selects one of the tables of a TableSet.
type TableKind int

const (
	TableMetropolitan TableKind = iota
	TableOverseas
	TableExempt
)

// TableSet is the group of tables a Resolver reads from.
type TableSet struct {
	Metropolitan RateTable
	Overseas     RateTable
	Exempt       RateTable
}

// DefaultTables returns the fixed French tables.
func DefaultTables() TableSet {
	return TableSet{Metropolitan: metropolitan, Overseas: overseas, Exempt: exempt}
}

// Get returns the table of the given kind.
func (s TableSet) Get(k TableKind) RateTable {
	switch k {
	case TableMetropolitan:
		return s.Metropolitan
	case TableOverseas:
		return s.Overseas
	default:
		return s.Exempt
	}
}
