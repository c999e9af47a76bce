package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces the business profile
type UpdateSettingsRequest struct {
	BusinessName   string          `json:"business_name" binding:"required,max=200"`
	Address        string          `json:"address" binding:"max=1000"`
	Phone          string          `json:"phone" binding:"max=50"`
	Email          string          `json:"email" binding:"omitempty,email,max=200"`
	TaxNumber      string          `json:"tax_number" binding:"max=100"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate" binding:"decimal_gte0"`
	ReceiptFooter  string          `json:"receipt_footer" binding:"max=1000"`
}

// SettingsResponse represents the business profile in API responses
type SettingsResponse struct {
	BusinessName   string    `json:"business_name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	TaxNumber      string    `json:"tax_number"`
	Currency       string    `json:"currency"`
	DefaultTaxRate string    `json:"default_tax_rate"`
	ReceiptFooter  string    `json:"receipt_footer"`
	LogoURL        string    `json:"logo_url"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateShopContentRequest replaces the storefront copy
type UpdateShopContentRequest struct {
	HeroTitle          string      `json:"hero_title" binding:"max=200"`
	HeroSubtitle       string      `json:"hero_subtitle" binding:"max=500"`
	HeroImageURL       string      `json:"hero_image_url" binding:"omitempty,url,max=1000"`
	HeroCTAText        string      `json:"hero_cta_text" binding:"max=100"`
	HeroCTALink        string      `json:"hero_cta_link" binding:"max=1000"`
	PromoTitle         string      `json:"promo_title" binding:"max=200"`
	PromoText          string      `json:"promo_text" binding:"max=5000"`
	PromoImageURL      string      `json:"promo_image_url" binding:"omitempty,url,max=1000"`
	PromoActive        bool        `json:"promo_active"`
	FeaturedProductIDs []uuid.UUID `json:"featured_product_ids" binding:"max=24"`
}

// ShopContentResponse represents the storefront copy in API responses
type ShopContentResponse struct {
	HeroTitle          string      `json:"hero_title"`
	HeroSubtitle       string      `json:"hero_subtitle"`
	HeroImageURL       string      `json:"hero_image_url"`
	HeroCTAText        string      `json:"hero_cta_text"`
	HeroCTALink        string      `json:"hero_cta_link"`
	PromoTitle         string      `json:"promo_title"`
	PromoText          string      `json:"promo_text"`
	PromoImageURL      string      `json:"promo_image_url"`
	PromoActive        bool        `json:"promo_active"`
	FeaturedProductIDs []uuid.UUID `json:"featured_product_ids"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// LogoResponse is returned after a logo upload
type LogoResponse struct {
	LogoURL string `json:"logo_url"`
}

// ToSettingsResponse converts domain AppSettings
func ToSettingsResponse(s *settings.AppSettings) SettingsResponse {
	return SettingsResponse{
		BusinessName:   s.BusinessName,
		Address:        s.Address,
		Phone:          s.Phone,
		Email:          s.Email,
		TaxNumber:      s.TaxNumber,
		Currency:       s.Currency,
		DefaultTaxRate: s.DefaultTaxRate.StringFixed(2),
		ReceiptFooter:  s.ReceiptFooter,
		LogoURL:        s.LogoURL,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToShopContentResponse converts domain ShopContent
func ToShopContentResponse(c *settings.ShopContent) ShopContentResponse {
	return ShopContentResponse{
		HeroTitle:          c.HeroTitle,
		HeroSubtitle:       c.HeroSubtitle,
		HeroImageURL:       c.HeroImageURL,
		HeroCTAText:        c.HeroCTAText,
		HeroCTALink:        c.HeroCTALink,
		PromoTitle:         c.PromoTitle,
		PromoText:          c.PromoText,
		PromoImageURL:      c.PromoImageURL,
		PromoActive:        c.PromoActive,
		FeaturedProductIDs: c.FeaturedIDs(),
		UpdatedAt:          c.UpdatedAt,
	}
}
