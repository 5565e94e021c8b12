package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vatcart/internal/domain"
)

// Quote is a snapshot given an identity so it can be stored and served later.
type Quote struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Snapshot
}

// NewQuote assigns a fresh ID and creation time to s.
func NewQuote(s Snapshot) *Quote {
	return &Quote{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Snapshot:  s,
	}
}

// Record converts the quote into its persisted form.
func (q *Quote) Record() (*domain.Quote, error) {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return nil, fmt.Errorf("encoding quote items: %w", err)
	}
	total, err := json.Marshal(q.Total)
	if err != nil {
		return nil, fmt.Errorf("encoding quote total: %w", err)
	}
	mentions := q.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	encodedMentions, err := json.Marshal(mentions)
	if err != nil {
		return nil, fmt.Errorf("encoding quote mentions: %w", err)
	}

	return &domain.Quote{
		ID:               q.ID,
		Country:          q.Context.Country,
		IsB2B:            q.Context.IsBusinessToBusiness,
		IsTaxInclusive:   q.Context.IsTaxInclusive,
		IsIntraCommunity: q.Context.IsIntraCommunity,
		Items:            items,
		Total:            total,
		Mentions:         encodedMentions,
		Amount:           q.Amount,
		CreatedAt:        q.CreatedAt,
	}, nil
}

// FromRecord restores a quote from its persisted form. The stored total and
// mentions are authoritative; the per-line trace is recomputed from the items.
func FromRecord(rec *domain.Quote, opts ...Option) (*Quote, error) {
	items, err := rec.DecodeItems()
	if err != nil {
		return nil, err
	}
	total, err := rec.DecodeTotal()
	if err != nil {
		return nil, err
	}
	mentions, err := rec.DecodeMentions()
	if err != nil {
		return nil, err
	}

	c := New(rec.Context(), items, opts...)
	if _, err := c.Compute(); err != nil {
		return nil, fmt.Errorf("tracing quote %s: %w", rec.ID, err)
	}
	c.total = total
	c.mentions = mentions

	return &Quote{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Snapshot:  c.Snapshot(),
	}, nil
}
