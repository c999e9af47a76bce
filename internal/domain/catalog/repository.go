package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter keys understood by ProductRepository.FindAll
const (
	FilterCategoryID  = "category_id"
	FilterPublished   = "is_published"
	FilterActive      = "is_active"
	FilterFeatured    = "featured"
	FilterAnyCategory = "any_category_id" // primary category or product_categories junction
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindBySlug loads a product with images and categories
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceCategories sets the secondary storefront categories
	ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error
	AddImage(ctx context.Context, image *ProductImage) error
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
	// DecrementStock removes qty units only when enough stock is on hand.
	// Returns shared.ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
	// ReceiveStock adds purchased units and records the latest unit cost
	ReceiveStock(ctx context.Context, id uuid.UUID, qty int, unitCost decimal.Decimal) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
