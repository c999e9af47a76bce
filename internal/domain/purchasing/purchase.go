package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Purchase is a delivery of stock from a vendor
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reference   string          `gorm:"type:varchar(100)"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes       string          `gorm:"type:text"`
	PurchasedAt time.Time       `gorm:"not null;index"`
	UserID      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"not null"`

	Vendor *Vendor        `gorm:"foreignKey:VendorID"`
	Items  []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one received product line
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// PurchaseLine describes a received line before it is recorded
type PurchaseLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitCost  decimal.Decimal
}

// NewPurchase records a delivery. purchasedAt defaults to now when zero.
func NewPurchase(vendorID uuid.UUID, reference, notes string, purchasedAt time.Time, lines []PurchaseLine, now time.Time) (*Purchase, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Vendor is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("Purchase must contain at least one item")
	}
	if purchasedAt.IsZero() {
		purchasedAt = now
	}

	p := &Purchase{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Reference:   strings.TrimSpace(reference),
		Notes:       strings.TrimSpace(notes),
		PurchasedAt: purchasedAt,
		CreatedAt:   now,
	}

	total := decimal.Zero
	for i, l := range lines {
		if l.ProductID == uuid.Nil {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("Item %d: product is required", i+1))
		}
		if l.Quantity <= 0 {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("Item %d: quantity must be positive", i+1))
		}
		if l.UnitCost.IsNegative() {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("Item %d: unit cost cannot be negative", i+1))
		}
		lineTotal := shared.RoundMoney(l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity))))
		p.Items = append(p.Items, PurchaseItem{
			ID:         uuid.New(),
			PurchaseID: p.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			LineTotal:  lineTotal,
		})
		total = total.Add(lineTotal)
	}
	p.TotalAmount = total
	return p, nil
}

// Filter keys understood by PurchaseRepository.FindAll
const FilterVendorID = "vendor_id"

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vendor, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	HasPurchases(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, vendor *Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Purchase, int64, error)
	// Create inserts the purchase with its items
	Create(ctx context.Context, purchase *Purchase) error
}
