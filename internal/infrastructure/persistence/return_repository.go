package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/returns"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// CreateReceipt inserts the receipt followed by its return lines
func (r *GormReturnRepository) CreateReceipt(ctx context.Context, receipt *returns.Receipt) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(receipt).Error; err != nil {
		return err
	}
	if len(receipt.Lines) == 0 {
		return nil
	}
	return db.Create(&receipt.Lines).Error
}

// FindReceiptByID loads a receipt with its lines
func (r *GormReturnRepository) FindReceiptByID(ctx context.Context, id uuid.UUID) (*returns.Receipt, error) {
	var receipt returns.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&receipt, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Return receipt")
	}
	return &receipt, nil
}

// FindAll lists return lines newest first
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.Return, int64, error) {
	query := r.db.WithContext(ctx).Model(&returns.Return{})
	for key, value := range filter.Filters {
		switch key {
		case returns.FilterSaleID:
			query = query.Where("sale_id = ?", value)
		case returns.FilterFrom:
			query = query.Where("created_at >= ?", value)
		case returns.FilterTo:
			query = query.Where("created_at < ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("product_name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []returns.Return
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindBySale returns every line returned against a sale
func (r *GormReturnRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]returns.Return, error) {
	var list []returns.Return
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Ensure GormReturnRepository implements ReturnRepository
var _ returns.ReturnRepository = (*GormReturnRepository)(nil)
