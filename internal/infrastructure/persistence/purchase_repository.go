package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID loads a purchase with its vendor and items
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Purchase, error) {
	var purchase purchasing.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Purchase")
	}
	return &purchase, nil
}

// FindAll lists purchases, newest delivery first
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.Purchase{})
	if vendorID, ok := filter.Filters[purchasing.FilterVendorID]; ok {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if filter.Search != "" {
		query = query.Where("reference ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []purchasing.Purchase
	if err := query.
		Preload("Vendor").
		Order(purchaseSort.clause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Create inserts the purchase and its items
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *purchasing.Purchase) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return shared.NewInvalidInputError("Purchase references a vendor that does not exist")
		}
		return translateError(err, "Purchase")
	}
	if len(purchase.Items) == 0 {
		return nil
	}
	if err := db.Create(&purchase.Items).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return shared.NewInvalidInputError("Purchase references a product that does not exist")
		}
		return err
	}
	return nil
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ purchasing.PurchaseRepository = (*GormPurchaseRepository)(nil)
