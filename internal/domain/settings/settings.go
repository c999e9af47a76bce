package settings

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SingletonID is the primary key of the only settings and content rows
const SingletonID = 1

// AppSettings is the business profile printed on receipts
type AppSettings struct {
	ID             int             `gorm:"primaryKey"`
	BusinessName   string          `gorm:"type:varchar(200);not null"`
	Address        string          `gorm:"type:text"`
	Phone          string          `gorm:"type:varchar(50)"`
	Email          string          `gorm:"type:varchar(200)"`
	TaxNumber      string          `gorm:"type:varchar(100)"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	DefaultTaxRate decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	ReceiptFooter  string          `gorm:"type:text"`
	LogoURL        string          `gorm:"type:varchar(1000)"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AppSettings) TableName() string {
	return "app_settings"
}

// DefaultAppSettings is the row seeded on first access
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		ID:             SingletonID,
		BusinessName:   "My Store",
		Currency:       "USD",
		DefaultTaxRate: decimal.Zero,
		ReceiptFooter:  "Thank you for shopping with us!",
		UpdatedAt:      time.Now(),
	}
}

// Update replaces the editable profile fields
func (s *AppSettings) Update(name, address, phone, email, taxNumber, currency, footer string, taxRate decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("Business name cannot be empty")
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewInvalidInputError("Invalid email format")
		}
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return shared.NewInvalidInputError("Currency must be a 3 letter ISO code")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewInvalidInputError("Tax rate must be between 0 and 100")
	}

	s.BusinessName = name
	s.Address = strings.TrimSpace(address)
	s.Phone = strings.TrimSpace(phone)
	s.Email = email
	s.TaxNumber = strings.TrimSpace(taxNumber)
	s.Currency = currency
	s.ReceiptFooter = strings.TrimSpace(footer)
	s.DefaultTaxRate = taxRate
	s.UpdatedAt = time.Now()
	return nil
}

// ShopContent is the editable storefront copy
type ShopContent struct {
	ID                 int       `gorm:"primaryKey"`
	HeroTitle          string    `gorm:"type:varchar(200)"`
	HeroSubtitle       string    `gorm:"type:varchar(500)"`
	HeroImageURL       string    `gorm:"type:varchar(1000)"`
	HeroCTAText        string    `gorm:"column:hero_cta_text;type:varchar(100)"`
	HeroCTALink        string    `gorm:"column:hero_cta_link;type:varchar(1000)"`
	PromoTitle         string    `gorm:"type:varchar(200)"`
	PromoText          string    `gorm:"type:text"`
	PromoImageURL      string    `gorm:"type:varchar(1000)"`
	PromoActive        bool      `gorm:"not null;default:false"`
	FeaturedProductIDs string    `gorm:"type:jsonb;not null;default:'[]'"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShopContent) TableName() string {
	return "shop_content"
}

// MaxFeaturedProducts caps the featured strip on the storefront
const MaxFeaturedProducts = 24

// DefaultShopContent is the row seeded on first access
func DefaultShopContent() *ShopContent {
	return &ShopContent{
		ID:                 SingletonID,
		HeroTitle:          "Welcome to our shop",
		HeroSubtitle:       "Browse our latest products",
		HeroCTAText:        "Shop now",
		HeroCTALink:        "/shop",
		FeaturedProductIDs: "[]",
		UpdatedAt:          time.Now(),
	}
}

// FeaturedIDs decodes the featured product list. Malformed data reads as empty.
func (c *ShopContent) FeaturedIDs() []uuid.UUID {
	var ids []uuid.UUID
	if c.FeaturedProductIDs == "" {
		return []uuid.UUID{}
	}
	if err := json.Unmarshal([]byte(c.FeaturedProductIDs), &ids); err != nil {
		return []uuid.UUID{}
	}
	return ids
}

// SetFeaturedIDs stores the featured list, dropping duplicates and keeping order
func (c *ShopContent) SetFeaturedIDs(ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return shared.NewInvalidInputError("Featured product id cannot be empty")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) > MaxFeaturedProducts {
		return shared.NewInvalidInputError("Too many featured products")
	}
	raw, err := json.Marshal(unique)
	if err != nil {
		return err
	}
	c.FeaturedProductIDs = string(raw)
	c.UpdatedAt = time.Now()
	return nil
}

// Repository persists the single-row configuration tables.
// Get methods seed the default row when it does not exist yet.
type Repository interface {
	GetSettings(ctx context.Context) (*AppSettings, error)
	SaveSettings(ctx context.Context, s *AppSettings) error
	UpdateLogoURL(ctx context.Context, url string) error
	GetShopContent(ctx context.Context) (*ShopContent, error)
	SaveShopContent(ctx context.Context, c *ShopContent) error
}
