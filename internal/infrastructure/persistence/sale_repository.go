package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("product_name ASC")
}

// FindByID loads a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		First(&sale, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Sale")
	}
	return &sale, nil
}

// FindByIDForUpdate loads a sale and locks its row until the transaction ends
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Sale")
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sale_id = ?", id).
		Order("product_name ASC").
		Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindAll lists sales newest first with their items
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case sales.FilterChannel:
			query = query.Where("channel = ?", value)
		case sales.FilterStatus:
			query = query.Where("status = ?", value)
		case sales.FilterFrom:
			query = query.Where("created_at >= ?", value)
		case sales.FilterTo:
			query = query.Where("created_at < ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []sales.Sale
	if err := query.
		Preload("Items", preloadItems).
		Order(saleSort.clause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindRecent returns the latest sales
func (r *GormSaleRepository) FindRecent(ctx context.Context, limit int) ([]sales.Sale, error) {
	var list []sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindBetween returns sales in [from, to), newest first
func (r *GormSaleRepository) FindBetween(ctx context.Context, from, to time.Time, limit int) ([]sales.Sale, error) {
	var list []sales.Sale
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts the sale and its items
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(sale).Error; err != nil {
		return translateError(err, "Sale")
	}
	if len(sale.Items) == 0 {
		return nil
	}
	return db.Create(&sale.Items).Error
}

// UpdateReturnState persists refund totals, status and per-line returned quantities
func (r *GormSaleRepository) UpdateReturnState(ctx context.Context, sale *sales.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&sales.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"refunded_amount": sale.RefundedAmount,
			"refunded_card":   sale.RefundedCard,
			"status":          sale.Status,
			"updated_at":      sale.UpdatedAt,
		}).Error; err != nil {
		return err
	}
	for _, it := range sale.Items {
		if err := db.Model(&sales.SaleItem{}).
			Where("id = ?", it.ID).
			Updates(map[string]any{
				"returned_quantity": it.ReturnedQuantity,
				"refunded_amount":   it.RefundedAmount,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
