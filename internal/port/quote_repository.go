package port

import (
	"context"

	"github.com/google/uuid"

	"vatcart/internal/domain"
)

// QuoteRepository defines the contract for quote persistence.
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	List(ctx context.Context, offset, limit int) ([]domain.Quote, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}
