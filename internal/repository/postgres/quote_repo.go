package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vatcart/internal/domain"
	"vatcart/internal/port"
)

const quoteColumns = `id, country, is_b2b, is_tax_inclusive, is_intra_community,
	items, total, mentions, amount, created_at`

type quoteRepo struct {
	db *sqlx.DB
}

// NewQuoteRepo creates a new PostgreSQL-backed QuoteRepository.
func NewQuoteRepo(db *sqlx.DB) port.QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) Create(ctx context.Context, q *domain.Quote) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO quotes (`+quoteColumns+`)
		VALUES (:id, :country, :is_b2b, :is_tax_inclusive, :is_intra_community,
			:items, :total, :mentions, :amount, :created_at)`, q)
	if err != nil {
		return fmt.Errorf("quoteRepo.Create: %w", err)
	}
	return nil
}

func (r *quoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var q domain.Quote
	err := r.db.GetContext(ctx, &q,
		"SELECT "+quoteColumns+" FROM quotes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quoteRepo.GetByID: %w", err)
	}
	return &q, nil
}

func (r *quoteRepo) List(ctx context.Context, offset, limit int) ([]domain.Quote, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM quotes"); err != nil {
		return nil, 0, fmt.Errorf("quoteRepo.List count: %w", err)
	}

	quotes := []domain.Quote{}
	err := r.db.SelectContext(ctx, &quotes,
		"SELECT "+quoteColumns+" FROM quotes ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("quoteRepo.List: %w", err)
	}
	return quotes, total, nil
}

func (r *quoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("quoteRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuoteNotFound
	}
	return nil
}
