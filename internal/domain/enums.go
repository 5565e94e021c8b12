package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TaxCategory identifies a row of a VAT rate table. It is a key, not a rate.
type TaxCategory int

const (
	TaxNoRate       TaxCategory = 0
	TaxNormal       TaxCategory = 1
	TaxIntermediate TaxCategory = 2
	TaxReduced      TaxCategory = 3
	TaxSpecial      TaxCategory = 4
)

var taxCategoryLabels = map[TaxCategory]string{
	TaxNoRate:       "Taux non-applicable",
	TaxNormal:       "Taux normal",
	TaxIntermediate: "Taux intermédiaire",
	TaxReduced:      "Taux réduit",
	TaxSpecial:      "Taux spécial",
}

// TaxCategories returns every category in display order.
func TaxCategories() []TaxCategory {
	return []TaxCategory{TaxNoRate, TaxNormal, TaxIntermediate, TaxReduced, TaxSpecial}
}

// Valid reports whether c is one of the closed set of categories.
func (c TaxCategory) Valid() bool {
	_, ok := taxCategoryLabels[c]
	return ok
}

// Label returns the human-readable name shown on invoices.
func (c TaxCategory) Label() string {
	if l, ok := taxCategoryLabels[c]; ok {
		return l
	}
	return fmt.Sprintf("TaxCategory(%d)", int(c))
}

func (c TaxCategory) String() string { return c.Label() }

// UnmarshalJSON rejects categories outside the closed set.
func (c *TaxCategory) UnmarshalJSON(b []byte) error {
	n, err := decodeEnumInt(b)
	if err != nil {
		return fmt.Errorf("tax category: %w", err)
	}
	tc := TaxCategory(n)
	if !tc.Valid() {
		return fmt.Errorf("%w: unknown tax category %d", ErrInvalidCartData, n)
	}
	*c = tc
	return nil
}

// Unit is the unit of measure attached to a line quantity.
type Unit int

const (
	UnitDays  Unit = 0
	UnitHours Unit = 1
)

var unitLabels = map[Unit]string{
	UnitDays:  "jour(s)",
	UnitHours: "heure(s)",
}

// Units returns every unit in display order.
func Units() []Unit {
	return []Unit{UnitDays, UnitHours}
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

// Label returns the human-readable unit suffix.
func (u Unit) Label() string {
	if l, ok := unitLabels[u]; ok {
		return l
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

func (u Unit) String() string { return u.Label() }

// UnmarshalJSON rejects units outside the closed set.
func (u *Unit) UnmarshalJSON(b []byte) error {
	n, err := decodeEnumInt(b)
	if err != nil {
		return fmt.Errorf("unit: %w", err)
	}
	unit := Unit(n)
	if !unit.Valid() {
		return fmt.Errorf("%w: unknown unit %d", ErrInvalidCartData, n)
	}
	*u = unit
	return nil
}

// PricingMode tells the totalizer whether line prices already include tax.
type PricingMode string

const (
	PricingTaxInclusive PricingMode = "tax_inclusive"
	PricingTaxExclusive PricingMode = "tax_exclusive"
)

// ExportFormat is a supported quote export encoding.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps export formats to their MIME content type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// decodeEnumInt accepts an enum value written either as a JSON number or as a
// quoted integer such as "1".
func decodeEnumInt(b []byte) (int, error) {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidCartData, s)
		}
		return n, nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, err
	}
	return n, nil
}
