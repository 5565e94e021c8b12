package domain

import "errors"

var (
	ErrInvalidTaxRate          = errors.New("resolved tax rate must be greater than or equal to 0")
	ErrInvalidCartData         = errors.New("invalid cart data")
	ErrQuoteNotFound           = errors.New("quote not found")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
