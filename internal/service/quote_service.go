package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vatcart/internal/cart"
	"vatcart/internal/config"
	"vatcart/internal/domain"
	"vatcart/internal/port"
)

// QuoteService defines the cart computation and quote management contract.
type QuoteService interface {
	Compute(ctx context.Context, raw map[string]any) (*cart.Snapshot, error)
	Create(ctx context.Context, raw map[string]any) (*cart.Quote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*cart.Quote, error)
	List(ctx context.Context, offset, limit int) ([]cart.Quote, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type quoteService struct {
	repo    port.QuoteRepository
	cfg     config.CartConfig
	builder *cart.Builder
	opts    []cart.Option
	log     *zap.Logger
}

// NewQuoteService creates a new QuoteService. Carts built by the service take
// their missing context fields and the zero-tax finalization rule from cfg.
func NewQuoteService(repo port.QuoteRepository, cfg config.CartConfig, log *zap.Logger) QuoteService {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []cart.Option{
		cart.WithTotalizeOptions(cart.WithZeroTaxClearsInclusive(cfg.ZeroTaxClearsInclusive)),
	}
	defaults := domain.CartContext{
		IsTaxInclusive: cfg.DefaultTaxInclusive,
		Country:        cfg.DefaultCountry,
	}
	return &quoteService{
		repo:    repo,
		cfg:     cfg,
		builder: cart.NewBuilder(defaults, opts...),
		opts:    opts,
		log:     log.Named("quote_service"),
	}
}

func (s *quoteService) build(raw map[string]any) (*cart.Cart, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty cart", domain.ErrInvalidCartData)
	}
	if items, ok := raw["items"].([]any); ok && s.cfg.MaxItems > 0 && len(items) > s.cfg.MaxItems {
		return nil, fmt.Errorf("%w: %d items exceeds the limit of %d",
			domain.ErrInvalidCartData, len(items), s.cfg.MaxItems)
	}
	return s.builder.FromMap(raw)
}

func (s *quoteService) Compute(ctx context.Context, raw map[string]any) (*cart.Snapshot, error) {
	c, err := s.build(raw)
	if err != nil {
		return nil, err
	}
	snap := c.Snapshot()
	s.log.Debug("cart computed",
		zap.String("country", snap.Context.Country),
		zap.Int("items", len(snap.Items)),
		zap.Float64("amount", snap.Amount),
	)
	return &snap, nil
}

func (s *quoteService) Create(ctx context.Context, raw map[string]any) (*cart.Quote, error) {
	c, err := s.build(raw)
	if err != nil {
		return nil, err
	}

	q := cart.NewQuote(c.Snapshot())
	rec, err := q.Record()
	if err != nil {
		return nil, fmt.Errorf("quoteService.Create: %w", err)
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	q.CreatedAt = rec.CreatedAt

	s.log.Info("quote created",
		zap.String("quote_id", q.ID.String()),
		zap.String("country", q.Context.Country),
		zap.Float64("amount", q.Amount),
	)
	return q, nil
}

func (s *quoteService) GetByID(ctx context.Context, id uuid.UUID) (*cart.Quote, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cart.FromRecord(rec, s.opts...)
}

func (s *quoteService) List(ctx context.Context, offset, limit int) ([]cart.Quote, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || (s.cfg.MaxPageSize > 0 && limit > s.cfg.MaxPageSize) {
		limit = s.cfg.MaxPageSize
	}

	recs, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	quotes := make([]cart.Quote, 0, len(recs))
	for i := range recs {
		q, err := cart.FromRecord(&recs[i], s.opts...)
		if err != nil {
			s.log.Warn("skipping unreadable quote",
				zap.String("quote_id", recs[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		quotes = append(quotes, *q)
	}
	return quotes, total, nil
}

func (s *quoteService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("quote deleted", zap.String("quote_id", id.String()))
	return nil
}
