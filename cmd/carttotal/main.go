// Command carttotal computes a cart read from a JSON file (or stdin) without a
// database, and prints the result as JSON or as a CSV/XLSX export.
// Usage: carttotal [-format json|csv|xlsx] [-o out] [cart.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"vatcart/internal/cart"
	"vatcart/internal/config"
	"vatcart/internal/domain"
	"vatcart/internal/export"
	"vatcart/internal/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	format := flag.String("format", "json", "output format: json, csv or xlsx")
	outPath := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return fmt.Errorf("opening cart file: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading cart: %w", err)
	}

	builder := cart.NewBuilder(
		domain.CartContext{IsTaxInclusive: cfg.Cart.DefaultTaxInclusive, Country: cfg.Cart.DefaultCountry},
		cart.WithTotalizeOptions(cart.WithZeroTaxClearsInclusive(cfg.Cart.ZeroTaxClearsInclusive)),
	)
	c, err := builder.FromJSON(data)
	if err != nil {
		return fmt.Errorf("computing cart: %w", err)
	}
	q := cart.NewQuote(c.Snapshot())

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	zl.Debug("cart computed",
		zap.String("country", q.Context.Country),
		zap.Int("lines", len(q.Lines)),
		zap.Float64("amount", q.Amount),
	)

	if *format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(q.Snapshot)
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	return export.Write(out, f, q)
}
