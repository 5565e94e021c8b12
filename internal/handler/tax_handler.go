package handler

import (
	"github.com/gin-gonic/gin"

	"vatcart/internal/domain"
	"vatcart/internal/tax"
)

// TaxHandler serves the reference data presentation layers need to render carts.
type TaxHandler struct{}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler() *TaxHandler {
	return &TaxHandler{}
}

// Categories handles GET /api/v1/tax/categories
func (h *TaxHandler) Categories(c *gin.Context) {
	cats := domain.TaxCategories()
	out := make([]LabelEntry, 0, len(cats))
	for _, tc := range cats {
		out = append(out, LabelEntry{Value: int(tc), Label: tc.Label()})
	}
	RespondOK(c, out)
}

// Units handles GET /api/v1/tax/units
func (h *TaxHandler) Units(c *gin.Context) {
	units := domain.Units()
	out := make([]LabelEntry, 0, len(units))
	for _, u := range units {
		out = append(out, LabelEntry{Value: int(u), Label: u.Label()})
	}
	RespondOK(c, out)
}

// Rules handles GET /api/v1/tax/rules
func (h *TaxHandler) Rules(c *gin.Context) {
	ts := tax.DefaultTables()
	type ruleView struct {
		Key     string `json:"key"`
		Table   string `json:"table"`
		Mention string `json:"mention,omitempty"`
	}
	rules := tax.Rules()
	out := make([]ruleView, 0, len(rules)+1)
	for _, r := range append(rules, tax.FallbackRule()) {
		out = append(out, ruleView{Key: r.Key, Table: ts.Get(r.Table).Name(), Mention: r.Mention})
	}
	RespondOK(c, out)
}
