package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vatcart/internal/cart"
)

const (
	linesSheet   = "Lines"
	summarySheet = "Summary"
)

// WriteXLSX renders q as a workbook with a Lines sheet holding the line table
// and a Summary sheet holding the context, totals and mentions.
func WriteXLSX(w io.Writer, q *cart.Quote) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), linesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeLinesSheet(f, q, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, q, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeLinesSheet(f *excelize.File, q *cart.Quote, bold int) error {
	header := make([]interface{}, len(lineColumns))
	for i, c := range lineColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(linesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write lines header: %w", err)
	}
	if err := f.SetRowStyle(linesSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style lines header: %w", err)
	}

	for i := range q.Lines {
		l := &q.Lines[i]
		text := lineToRow(l)
		row := []interface{}{
			l.Item.Label,
			l.Item.Quantity,
			text[2],
			l.Item.Price,
			text[4],
			text[5],
			nil,
			text[7],
			text[8],
			text[9],
		}
		if !l.Skipped {
			row[6] = l.Amount
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(linesSheet, cell, &row); err != nil {
			return fmt.Errorf("write line %d: %w", i, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, q *cart.Quote, bold int) error {
	rowNum := 1
	put := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		rowNum++
		return f.SetSheetRow(summarySheet, cell, &values)
	}

	for _, r := range headerRows(q) {
		if err := put(r[0], r[1]); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}
	rowNum++

	if err := f.SetRowStyle(summarySheet, rowNum, rowNum, bold); err != nil {
		return fmt.Errorf("style breakdown header: %w", err)
	}
	if err := put("Rate", "Tax"); err != nil {
		return err
	}
	for _, r := range q.Total.Rates() {
		if err := put(formatRate(r), q.Total.PerRateTax[r]); err != nil {
			return fmt.Errorf("write breakdown: %w", err)
		}
	}
	totals := []struct {
		label string
		value float64
	}{
		{"Total Tax Exclusive", q.Total.TaxExclusive},
		{"Total Tax", q.Total.TotalTax},
		{"Total Tax Inclusive", q.Total.TaxInclusive},
		{"Amount", q.Amount},
	}
	for _, t := range totals {
		if err := put(t.label, t.value); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
	}

	if len(q.Mentions) == 0 {
		return nil
	}
	rowNum++
	if err := f.SetRowStyle(summarySheet, rowNum, rowNum, bold); err != nil {
		return fmt.Errorf("style mentions header: %w", err)
	}
	if err := put("Mentions"); err != nil {
		return err
	}
	for _, m := range q.Mentions {
		if err := put(m); err != nil {
			return fmt.Errorf("write mentions: %w", err)
		}
	}
	return nil
}
