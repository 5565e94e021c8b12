package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vatcart/internal/cart"
	"vatcart/internal/domain"
	"vatcart/internal/tax"
)

func sampleQuote(t *testing.T) *cart.Quote {
	t.Helper()
	days := domain.UnitDays
	c := cart.New(
		domain.CartContext{IsBusinessToBusiness: true, Country: "US"},
		[]domain.CartItem{
			{Label: "Audit", Quantity: 2, Price: 500, Unit: &days, TaxCategory: domain.TaxNormal, IsService: true},
			{Label: "Crate", Quantity: 1, Price: 80, TaxCategory: domain.TaxReduced},
			{Label: "Removed", Quantity: 0, Price: 10, TaxCategory: domain.TaxNormal},
		},
	)
	_, err := c.Compute()
	require.NoError(t, err)

	q := cart.NewQuote(c.Snapshot())
	q.ID = uuid.MustParse("0b7c6a52-1f3e-4d2a-9a53-3f1d2c4b5e6f")
	q.CreatedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return q
}

func taxedQuote(t *testing.T) *cart.Quote {
	t.Helper()
	c := cart.New(
		domain.CartContext{IsTaxInclusive: true, Country: "FR"},
		[]domain.CartItem{
			{Label: "Shirt", Quantity: 1, Price: 120, TaxCategory: domain.TaxNormal},
			{Label: "Bread", Quantity: 2, Price: 105.5, TaxCategory: domain.TaxReduced},
		},
	)
	_, err := c.Compute()
	require.NoError(t, err)
	return cart.NewQuote(c.Snapshot())
}

func readCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	require.True(t, len(body) >= 3)
	assert.Equal(t, BOM, body[:3])
	r := csv.NewReader(bytes.NewReader(body[3:]))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func findRow(records [][]string, first string) []string {
	for _, r := range records {
		if len(r) > 0 && r[0] == first {
			return r
		}
	}
	return nil
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatXLSX, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedExportFormat))
}

func TestWrite_CSV(t *testing.T) {
	q := sampleQuote(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.ExportFormatCSV, q))

	records := readCSV(t, buf.Bytes())

	assert.Equal(t, []string{"Quote", "0b7c6a52-1f3e-4d2a-9a53-3f1d2c4b5e6f"}, records[0])
	assert.Equal(t, []string{"Buyer", "B2B"}, findRow(records, "Buyer"))
	assert.Equal(t, []string{"Pricing", "tax_exclusive"}, findRow(records, "Pricing"))

	header := findRow(records, "Label")
	require.NotNil(t, header)
	assert.Len(t, header, len(lineColumns))

	audit := findRow(records, "Audit")
	require.NotNil(t, audit)
	assert.Equal(t, "2", audit[1])
	assert.Equal(t, "jour(s)", audit[2])
	assert.Equal(t, "500.00", audit[3])
	assert.Equal(t, "Taux normal", audit[4])
	assert.Equal(t, "Yes", audit[5])
	assert.Equal(t, "1000.00", audit[6])
	assert.Equal(t, "0%", audit[7])
	assert.Equal(t, "services.b2b.world", audit[8])
	assert.Equal(t, tax.MentionServicesReverse, audit[9])

	removed := findRow(records, "Removed")
	require.NotNil(t, removed)
	assert.Equal(t, "", removed[6])
	assert.Equal(t, "skipped", removed[8])

	assert.Equal(t, []string{"Total Tax Exclusive", "1080.00"}, findRow(records, "Total Tax Exclusive"))
	assert.Equal(t, []string{"Amount", "1080.00"}, findRow(records, "Amount"))
	assert.NotNil(t, findRow(records, "Mentions"))
	assert.NotNil(t, findRow(records, tax.MentionGoodsExportB2B))
}

func TestWrite_CSVBreakdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.ExportFormatCSV, taxedQuote(t)))

	records := readCSV(t, buf.Bytes())
	assert.Equal(t, []string{"5.5%", "11.00"}, findRow(records, "5.5%"))
	assert.Equal(t, []string{"20%", "20.00"}, findRow(records, "20%"))
	assert.Equal(t, []string{"Total Tax", "31.00"}, findRow(records, "Total Tax"))
	assert.Nil(t, findRow(records, "Mentions"))
}

func TestWrite_XLSX(t *testing.T) {
	q := sampleQuote(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.ExportFormatXLSX, q))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{linesSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(linesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, lineColumns, rows[0])
	assert.Equal(t, "Audit", rows[1][0])
	assert.Equal(t, "services.b2b.world", rows[1][8])
	assert.Equal(t, "skipped", rows[3][8])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quote", q.ID.String()}, summary[0])
	assert.Equal(t, []string{"Country", "US"}, findRow(summary, "Country"))
	assert.NotNil(t, findRow(summary, "Mentions"))
	assert.NotNil(t, findRow(summary, tax.MentionGoodsExportB2B))
}

func TestWrite_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, domain.ExportFormat("pdf"), sampleQuote(t))
	assert.True(t, errors.Is(err, domain.ErrUnsupportedExportFormat))
	assert.Zero(t, buf.Len())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"quote FR 1234abcd", "quote_FR_1234abcd"},
		{"  spaces  and//slashes ", "spaces_and_slashes"},
		{"ok-name_1", "ok-name_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestBuildFilename(t *testing.T) {
	q := sampleQuote(t)
	assert.Equal(t, "quote_US_0b7c6a52_2025-03-14.csv", BuildFilename(q, domain.ExportFormatCSV))
	assert.Equal(t, "quote_US_0b7c6a52_2025-03-14.xlsx", BuildFilename(q, domain.ExportFormatXLSX))
}
