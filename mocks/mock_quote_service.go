package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vatcart/internal/cart"
)

// MockQuoteService is a mock implementation of service.QuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Compute(ctx context.Context, raw map[string]any) (*cart.Snapshot, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Snapshot), args.Error(1)
}

func (m *MockQuoteService) Create(ctx context.Context, raw map[string]any) (*cart.Quote, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Quote), args.Error(1)
}

func (m *MockQuoteService) GetByID(ctx context.Context, id uuid.UUID) (*cart.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Quote), args.Error(1)
}

func (m *MockQuoteService) List(ctx context.Context, offset, limit int) ([]cart.Quote, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]cart.Quote), args.Int(1), args.Error(2)
}

func (m *MockQuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
