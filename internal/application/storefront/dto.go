package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/retailpos/backend/internal/domain/shared"
)

// CatalogFilter represents storefront catalog query options
type CatalogFilter struct {
	Search     string `form:"search" binding:"max=100"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=60"`
}

// CartItem is one line of a client-held cart
type CartItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=1000"`
}

// QuoteRequest prices a cart
type QuoteRequest struct {
	Items []CartItem `json:"items" binding:"required,min=1,max=100,dive"`
}

// CheckoutRequest places an online order
type CheckoutRequest struct {
	Items         []CartItem `json:"items" binding:"required,min=1,max=100,dive"`
	CustomerName  string     `json:"customer_name" binding:"required,max=200"`
	CustomerEmail string     `json:"customer_email" binding:"required,email,max=200"`
	CustomerPhone string     `json:"customer_phone" binding:"max=50"`
	Address       string     `json:"address" binding:"max=1000"`
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=card cash_on_delivery"`
	Notes         string     `json:"notes" binding:"max=1000"`
}

// ImageResponse is a public product image
type ImageResponse struct {
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
}

// CategoryResponse is a public category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

// ProductCard is a catalog listing entry.
// CompareAtPrice is the till price, shown only when the web price is lower.
type ProductCard struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Price          string    `json:"price"`
	CompareAtPrice *string   `json:"compare_at_price,omitempty"`
	TaxRate        string    `json:"tax_rate"`
	InStock        bool      `json:"in_stock"`
	Featured       bool      `json:"featured"`
	ImageURL       string    `json:"image_url"`
}

// ProductDetail is the public product page
type ProductDetail struct {
	ProductCard
	Description    string             `json:"description"`
	SEOTitle       string             `json:"seo_title"`
	SEODescription string             `json:"seo_description"`
	SEOKeywords    string             `json:"seo_keywords"`
	Images         []ImageResponse    `json:"images"`
	Categories     []CategoryResponse `json:"categories"`
}

// ContentResponse is the storefront home page copy with featured products resolved
type ContentResponse struct {
	HeroTitle        string        `json:"hero_title"`
	HeroSubtitle     string        `json:"hero_subtitle"`
	HeroImageURL     string        `json:"hero_image_url"`
	HeroCTAText      string        `json:"hero_cta_text"`
	HeroCTALink      string        `json:"hero_cta_link"`
	PromoTitle       string        `json:"promo_title,omitempty"`
	PromoText        string        `json:"promo_text,omitempty"`
	PromoImageURL    string        `json:"promo_image_url,omitempty"`
	PromoActive      bool          `json:"promo_active"`
	FeaturedProducts []ProductCard `json:"featured_products"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
	LineTax   string    `json:"line_tax"`
	InStock   bool      `json:"in_stock"`
}

// QuoteResponse is a priced cart
type QuoteResponse struct {
	Items    []QuoteLine `json:"items"`
	Subtotal string      `json:"subtotal"`
	Tax      string      `json:"tax"`
	Total    string      `json:"total"`
}

// ToProductCard converts a catalog product for public listing
func ToProductCard(p *catalog.Product) ProductCard {
	price := p.EffectivePrice()
	card := ProductCard{
		ID:       p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		Price:    shared.FormatMoney(price),
		TaxRate:  p.TaxRate.StringFixed(2),
		InStock:  p.Stock > 0,
		Featured: p.Featured,
		ImageURL: primaryImage(p.Images),
	}
	if price.LessThan(p.Price) {
		compareAt := shared.FormatMoney(p.Price)
		card.CompareAtPrice = &compareAt
	}
	return card
}

// ToProductDetail converts a catalog product for the product page
func ToProductDetail(p *catalog.Product) ProductDetail {
	detail := ProductDetail{
		ProductCard:    ToProductCard(p),
		Description:    p.Description,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		SEOKeywords:    p.SEOKeywords,
		Images:         make([]ImageResponse, len(p.Images)),
		Categories:     make([]CategoryResponse, 0, len(p.Categories)+1),
	}
	for i, img := range p.Images {
		detail.Images[i] = ImageResponse{URL: img.URL, AltText: img.AltText, IsPrimary: img.IsPrimary}
	}
	seen := make(map[uuid.UUID]struct{})
	if p.Category != nil {
		detail.Categories = append(detail.Categories, toCategoryResponse(p.Category))
		seen[p.Category.ID] = struct{}{}
	}
	for i := range p.Categories {
		if _, ok := seen[p.Categories[i].ID]; ok {
			continue
		}
		detail.Categories = append(detail.Categories, toCategoryResponse(&p.Categories[i]))
	}
	return detail
}

func toCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func primaryImage(images []catalog.ProductImage) string {
	for _, img := range images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

func toContentResponse(c *settings.ShopContent, featured []ProductCard) ContentResponse {
	resp := ContentResponse{
		HeroTitle:        c.HeroTitle,
		HeroSubtitle:     c.HeroSubtitle,
		HeroImageURL:     c.HeroImageURL,
		HeroCTAText:      c.HeroCTAText,
		HeroCTALink:      c.HeroCTALink,
		PromoActive:      c.PromoActive,
		FeaturedProducts: featured,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.PromoActive {
		resp.PromoTitle = c.PromoTitle
		resp.PromoText = c.PromoText
		resp.PromoImageURL = c.PromoImageURL
	}
	return resp
}

func toQuoteResponse(items []sales.SaleItem, totals sales.Totals, stock map[uuid.UUID]int) QuoteResponse {
	resp := QuoteResponse{
		Items:    make([]QuoteLine, len(items)),
		Subtotal: shared.FormatMoney(totals.Subtotal),
		Tax:      shared.FormatMoney(totals.Tax),
		Total:    shared.FormatMoney(totals.Total),
	}
	for i, it := range items {
		resp.Items[i] = QuoteLine{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: shared.FormatMoney(it.UnitPrice),
			LineTotal: shared.FormatMoney(it.LineTotal),
			LineTax:   shared.FormatMoney(it.LineTax),
			InStock:   stock[it.ProductID] >= it.Quantity,
		}
	}
	return resp
}
