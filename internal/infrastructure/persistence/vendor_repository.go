package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Vendor, error) {
	var vendor purchasing.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Vendor")
	}
	return &vendor, nil
}

// FindAll lists vendors matching the filter
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.Vendor, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.Vendor{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact_name ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	orderDir := filter.OrderDir
	if orderBy == "" {
		orderBy, orderDir = "name", "asc"
	}

	var vendors []purchasing.Vendor
	if err := query.
		Order(vendorSort.clause(orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// ExistsByName checks for a case-insensitive name clash
func (r *GormVendorRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.Vendor{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPurchases reports whether any purchase references the vendor
func (r *GormVendorRepository) HasPurchases(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&purchasing.Purchase{}).Where("vendor_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *purchasing.Vendor) error {
	return translateError(r.db.WithContext(ctx).Save(vendor).Error, "Vendor")
}

// Delete deletes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&purchasing.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "Vendor")
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Vendor")
	}
	return nil
}

// Ensure GormVendorRepository implements VendorRepository
var _ purchasing.VendorRepository = (*GormVendorRepository)(nil)
