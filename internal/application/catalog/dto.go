package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	SKU            string           `json:"sku" binding:"required,min=1,max=64"`
	Barcode        string           `json:"barcode" binding:"max=64"`
	Price          decimal.Decimal  `json:"price" binding:"decimal_gte0"`
	CostPrice      *decimal.Decimal `json:"cost_price" binding:"omitempty,decimal_gte0"`
	TaxRate        *decimal.Decimal `json:"tax_rate" binding:"omitempty,decimal_gte0"`
	Stock          *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	IsActive       *bool            `json:"is_active"`
	Slug           string           `json:"slug" binding:"omitempty,slug"`
	WebPrice       *decimal.Decimal `json:"web_price" binding:"omitempty,decimal_gte0"`
	IsPublished    bool             `json:"is_published"`
	Featured       bool             `json:"featured"`
	SortOrder      int              `json:"sort_order"`
	Description    string           `json:"description" binding:"max=5000"`
	SEOTitle       string           `json:"seo_title" binding:"max=200"`
	SEODescription string           `json:"seo_description" binding:"max=500"`
	SEOKeywords    string           `json:"seo_keywords" binding:"max=500"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU            *string          `json:"sku" binding:"omitempty,min=1,max=64"`
	Barcode        *string          `json:"barcode" binding:"omitempty,max=64"`
	Price          *decimal.Decimal `json:"price" binding:"omitempty,decimal_gte0"`
	CostPrice      *decimal.Decimal `json:"cost_price" binding:"omitempty,decimal_gte0"`
	TaxRate        *decimal.Decimal `json:"tax_rate" binding:"omitempty,decimal_gte0"`
	Stock          *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	ClearCategory  bool             `json:"clear_category"`
	IsActive       *bool            `json:"is_active"`
	Slug           *string          `json:"slug"`
	WebPrice       *decimal.Decimal `json:"web_price" binding:"omitempty,decimal_gte0"`
	ClearWebPrice  bool             `json:"clear_web_price"`
	IsPublished    *bool            `json:"is_published"`
	Featured       *bool            `json:"featured"`
	SortOrder      *int             `json:"sort_order"`
	Description    *string          `json:"description" binding:"omitempty,max=5000"`
	SEOTitle       *string          `json:"seo_title" binding:"omitempty,max=200"`
	SEODescription *string          `json:"seo_description" binding:"omitempty,max=500"`
	SEOKeywords    *string          `json:"seo_keywords" binding:"omitempty,max=500"`
}

// SetCategoriesRequest replaces a product's secondary storefront categories
type SetCategoriesRequest struct {
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

// AddImageRequest attaches an image by URL
type AddImageRequest struct {
	URL       string `json:"url" binding:"required,max=1000"`
	AltText   string `json:"alt_text" binding:"max=200"`
	SortOrder int    `json:"sort_order"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	IsActive   *bool  `form:"is_active"`
	Published  *bool  `form:"is_published"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ImageResponse is a product image
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	SortOrder int       `json:"sort_order"`
	IsPrimary bool      `json:"is_primary"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	SKU            string             `json:"sku"`
	Barcode        string             `json:"barcode"`
	Price          string             `json:"price"`
	CostPrice      string             `json:"cost_price"`
	TaxRate        string             `json:"tax_rate"`
	Stock          int                `json:"stock"`
	CategoryID     *uuid.UUID         `json:"category_id"`
	IsActive       bool               `json:"is_active"`
	Slug           string             `json:"slug"`
	WebPrice       *string            `json:"web_price"`
	IsPublished    bool               `json:"is_published"`
	Featured       bool               `json:"featured"`
	SortOrder      int                `json:"sort_order"`
	Description    string             `json:"description"`
	SEOTitle       string             `json:"seo_title"`
	SEODescription string             `json:"seo_description"`
	SEOKeywords    string             `json:"seo_keywords"`
	Margin         string             `json:"margin"`
	Images         []ImageResponse    `json:"images"`
	Categories     []CategoryResponse `json:"categories"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Barcode:        p.Barcode,
		Price:          shared.FormatMoney(p.Price),
		CostPrice:      shared.FormatMoney(p.CostPrice),
		TaxRate:        p.TaxRate.StringFixed(2),
		Stock:          p.Stock,
		CategoryID:     p.CategoryID,
		IsActive:       p.IsActive,
		Slug:           p.Slug,
		IsPublished:    p.IsPublished,
		Featured:       p.Featured,
		SortOrder:      p.SortOrder,
		Description:    p.Description,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		SEOKeywords:    p.SEOKeywords,
		Margin:         p.Margin().StringFixed(2),
		Images:         ToImageResponses(p.Images),
		Categories:     ToCategoryResponses(p.Categories),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.WebPrice != nil {
		web := shared.FormatMoney(*p.WebPrice)
		resp.WebPrice = &web
	}
	return resp
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToImageResponses converts product images
func ToImageResponses(images []catalog.ProductImage) []ImageResponse {
	responses := make([]ImageResponse, len(images))
	for i, img := range images {
		responses[i] = ImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			SortOrder: img.SortOrder,
			IsPrimary: img.IsPrimary,
		}
	}
	return responses
}

// ToCategoryResponse converts a domain Category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
