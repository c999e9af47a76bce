package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Filter keys understood by SaleRepository.FindAll
const (
	FilterChannel = "channel"
	FilterStatus  = "status"
	FilterFrom    = "from"
	FilterTo      = "to"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID loads a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads a sale with its items and locks the rows
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)
	FindRecent(ctx context.Context, limit int) ([]Sale, error)
	FindBetween(ctx context.Context, from, to time.Time, limit int) ([]Sale, error)
	// Create inserts the sale and all its items
	Create(ctx context.Context, sale *Sale) error
	// UpdateReturnState persists refund totals, status and per-item returned quantities
	UpdateReturnState(ctx context.Context, sale *Sale) error
}
