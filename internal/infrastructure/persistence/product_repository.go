package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("Categories").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Product")
	}
	return &product, nil
}

// FindBySlug finds a product by its storefront slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("Categories").
		Where("slug = ?", strings.ToLower(slug)).
		First(&product).Error; err != nil {
		return nil, translateError(err, "Product")
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds products matching the filter and returns the unpaged total
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	order := productSort.clause(filter.OrderBy, filter.OrderDir)
	if _, storefront := filter.Filters[catalog.FilterPublished]; storefront && filter.OrderBy == "" {
		order = "featured DESC, sort_order ASC, name ASC"
	}
	if err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Order(order).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ExistsBySKU checks if another product already uses the SKU
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySlug checks if another product already uses the slug
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product. Associations are managed separately.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error, "Product")
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "Product")
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

// ReplaceCategories sets the product's secondary categories
func (r *GormProductRepository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_categories WHERE product_id = ?", productID).Error; err != nil {
			return err
		}
		for _, categoryID := range categoryIDs {
			if err := tx.Exec(
				"INSERT INTO product_categories (product_id, category_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				productID, categoryID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddImage attaches an image. A primary image demotes the previous one.
func (r *GormProductRepository) AddImage(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if image.IsPrimary {
			if err := tx.Model(&catalog.ProductImage{}).
				Where("product_id = ? AND is_primary = ?", image.ProductID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(image).Error
	})
}

// DeleteImage removes an image from a product
func (r *GormProductRepository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "id = ? AND product_id = ?", imageID, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product image")
	}
	return nil
}

// DecrementStock removes units only when enough are on hand
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock - ?, updated_at = NOW() WHERE id = ? AND stock >= ?",
		qty, id, qty,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// IncrementStock puts units back on hand
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock + ?, updated_at = NOW() WHERE id = ?",
		qty, id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

// ReceiveStock adds purchased units and records the latest unit cost
func (r *GormProductRepository) ReceiveStock(ctx context.Context, id uuid.UUID, qty int, unitCost decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock + ?, cost_price = ?, updated_at = NOW() WHERE id = ?",
		qty, unitCost, id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

// applyFilter applies search and filter keys without pagination
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR barcode ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterCategoryID:
			if value == nil {
				query = query.Where("category_id IS NULL")
			} else {
				query = query.Where("category_id = ?", value)
			}
		case catalog.FilterAnyCategory:
			query = query.Where(
				"category_id = ? OR id IN (SELECT product_id FROM product_categories WHERE category_id = ?)",
				value, value,
			)
		case catalog.FilterPublished:
			query = query.Where("is_published = ?", value)
		case catalog.FilterActive:
			query = query.Where("is_active = ?", value)
		case catalog.FilterFeatured:
			query = query.Where("featured = ?", value)
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
