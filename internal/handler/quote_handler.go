package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vatcart/internal/domain"
	"vatcart/internal/export"
	"vatcart/internal/service"
)

// QuoteHandler handles cart computation and quote endpoints.
type QuoteHandler struct {
	quoteService service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func bindCart(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil || raw == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object")
		return nil, false
	}
	return raw, true
}

func parseQuoteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid quote ID")
		return uuid.Nil, false
	}
	return id, true
}

// Total computes a cart without storing it.
// @Summary Compute a cart total
// @Description Resolve the VAT rate and legal mention of every line and aggregate the cart
// @Tags carts
// @Accept json
// @Produce json
// @Param request body CartRequest true "Cart to compute"
// @Success 200 {object} Response{data=cart.Snapshot} "Computed cart"
// @Failure 400 {object} ErrorResponseBody "Invalid cart"
// @Failure 422 {object} ErrorResponseBody "Invalid tax rate"
// @Router /carts/total [post]
func (h *QuoteHandler) Total(c *gin.Context) {
	raw, ok := bindCart(c)
	if !ok {
		return
	}

	snap, err := h.quoteService.Compute(c.Request.Context(), raw)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, snap)
}

// Create computes a cart and stores it as a quote.
// @Summary Create a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body CartRequest true "Cart to quote"
// @Success 201 {object} Response{data=cart.Quote} "Quote created"
// @Failure 400 {object} ErrorResponseBody "Invalid cart"
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	raw, ok := bindCart(c)
	if !ok {
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), raw)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, quote)
}

// List handles GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	quotes, total, err := h.quoteService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, quotes, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/quotes/:id
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, quote)
}

// Delete handles DELETE /api/v1/quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	if err := h.quoteService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "quote deleted"})
}

// Export downloads a stored quote as a spreadsheet.
// @Summary Export a quote
// @Tags quotes
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quote ID (UUID)"
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file "Exported quote"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 404 {object} ErrorResponseBody "Quote not found"
// @Router /quotes/{id}/export [get]
func (h *QuoteHandler) Export(c *gin.Context) {
	id, ok := parseQuoteID(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		HandleError(c, err)
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Render fully before writing headers so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, quote); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.BuildFilename(quote, format)))
	c.Data(http.StatusOK, domain.ExportContentTypes[format], buf.Bytes())
}
