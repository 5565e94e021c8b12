package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vatcart/internal/cart"
	"vatcart/internal/domain"
)

// ParseFormat validates a format name such as "csv" or "XLSX".
func ParseFormat(s string) (domain.ExportFormat, error) {
	f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := domain.ExportContentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, s)
	}
	return f, nil
}

// Write renders q to w in the given format.
func Write(w io.Writer, format domain.ExportFormat, q *cart.Quote) error {
	switch format {
	case domain.ExportFormatCSV:
		if _, err := w.Write(BOM); err != nil {
			return err
		}
		cw := NewCSVWriter(w)
		if err := cw.WriteQuote(q); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, q)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}
}

// lineColumns defines the header row of the line table.
var lineColumns = []string{
	"Label",
	"Quantity",
	"Unit",
	"Unit Price",
	"Tax Category",
	"Service",
	"Line Amount",
	"Rate",
	"Rule",
	"Mention",
}

// lineToRow converts a traced line to a row matching lineColumns. Skipped
// lines keep their item columns and leave the resolution columns empty.
func lineToRow(l *cart.Line) []string {
	row := make([]string, len(lineColumns))
	row[0] = l.Item.Label
	row[1] = strconv.FormatFloat(l.Item.Quantity, 'f', -1, 64)
	if l.Item.Unit != nil {
		row[2] = l.Item.Unit.Label()
	}
	row[3] = formatMoney(l.Item.Price)
	row[4] = l.Item.TaxCategory.Label()
	row[5] = formatBool(l.Item.IsService)

	if l.Skipped {
		row[8] = "skipped"
		return row
	}
	row[6] = formatMoney(l.Amount)
	row[7] = formatRate(l.Rate)
	row[8] = l.RuleKey
	row[9] = l.Mention
	return row
}

// headerRows describes the sale context of the quote.
func headerRows(q *cart.Quote) [][]string {
	buyer := "B2C"
	if q.Context.IsBusinessToBusiness {
		buyer = "B2B"
	}
	return [][]string{
		{"Quote", q.ID.String()},
		{"Created At", q.CreatedAt.Format(time.RFC3339)},
		{"Country", q.Context.Country},
		{"Buyer", buyer},
		{"Intra-Community", formatBool(q.Context.IsIntraCommunity)},
		{"Pricing", string(q.Context.PricingMode())},
	}
}

// totalRows lists the per-rate breakdown in ascending rate order followed by
// the aggregate amounts.
func totalRows(q *cart.Quote) [][]string {
	rows := [][]string{{"Rate", "Tax"}}
	for _, r := range q.Total.Rates() {
		rows = append(rows, []string{formatRate(r), formatMoney(q.Total.PerRateTax[r])})
	}
	return append(rows,
		[]string{"Total Tax Exclusive", formatMoney(q.Total.TaxExclusive)},
		[]string{"Total Tax", formatMoney(q.Total.TotalTax)},
		[]string{"Total Tax Inclusive", formatMoney(q.Total.TaxInclusive)},
		[]string{"Amount", formatMoney(q.Amount)},
	)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatRate renders 0.055 as "5.5%".
func formatRate(r float64) string {
	return decimal.NewFromFloat(r).Shift(2).String() + "%"
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: quote_{country}_{short id}_{YYYY-MM-DD}.{ext}
func BuildFilename(q *cart.Quote, format domain.ExportFormat) string {
	name := SanitizeFilename(fmt.Sprintf("quote %s %s", q.Context.Country, q.ID.String()[:8]))
	return fmt.Sprintf("%s_%s.%s", name, q.CreatedAt.Format("2006-01-02"), format)
}
