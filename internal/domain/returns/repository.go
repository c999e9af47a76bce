package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Filter keys understood by ReturnRepository.FindAll
const (
	FilterSaleID = "sale_id"
	FilterFrom   = "from"
	FilterTo     = "to"
)

// ReturnRepository defines the interface for returns and their receipts
type ReturnRepository interface {
	// CreateReceipt inserts the receipt and all of its return lines
	CreateReceipt(ctx context.Context, receipt *Receipt) error
	FindReceiptByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Return, int64, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Return, error)
}
