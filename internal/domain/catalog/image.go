package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ProductImage is a storefront picture attached to a product
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"column:url;type:varchar(1000);not null"`
	AltText   string    `gorm:"type:varchar(200)"`
	SortOrder int       `gorm:"not null;default:0"`
	IsPrimary bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates an image record for a product
func NewProductImage(productID uuid.UUID, url, altText string, sortOrder int, primary bool) (*ProductImage, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, shared.NewInvalidInputError("Image URL cannot be empty")
	}
	if len(url) > 1000 {
		return nil, shared.NewInvalidInputError("Image URL cannot exceed 1000 characters")
	}
	return &ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		URL:       url,
		AltText:   strings.TrimSpace(altText),
		SortOrder: sortOrder,
		IsPrimary: primary,
		CreatedAt: time.Now(),
	}, nil
}
