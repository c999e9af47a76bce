package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

// Product represents a sellable item in the catalog.
// Price is tax-inclusive; WebPrice overrides it on the storefront when set.
type Product struct {
	shared.BaseEntity
	Name           string           `gorm:"type:varchar(200);not null"`
	SKU            string           `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Barcode        string           `gorm:"type:varchar(64);index"`
	Price          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate        decimal.Decimal  `gorm:"type:decimal(7,4);not null;default:0"`
	Stock          int              `gorm:"not null;default:0"`
	CategoryID     *uuid.UUID       `gorm:"type:uuid;index"`
	IsActive       bool             `gorm:"not null"`
	Slug           string           `gorm:"type:varchar(220);not null;uniqueIndex"`
	WebPrice       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	IsPublished    bool             `gorm:"not null;default:false"`
	Featured       bool             `gorm:"not null;default:false"`
	SortOrder      int              `gorm:"not null;default:0"`
	Description    string           `gorm:"type:text"`
	SEOTitle       string           `gorm:"column:seo_title;type:varchar(200)"`
	SEODescription string           `gorm:"column:seo_description;type:varchar(500)"`
	SEOKeywords    string           `gorm:"column:seo_keywords;type:varchar(500)"`

	Category   *Category      `gorm:"foreignKey:CategoryID"`
	Images     []ProductImage `gorm:"foreignKey:ProductID"`
	Categories []Category     `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active, unpublished product
func NewProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	p := &Product{
		BaseEntity: shared.NewBaseEntity(),
		IsActive:   true,
		CostPrice:  decimal.Zero,
		TaxRate:    decimal.Zero,
	}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.SetSKU(sku); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.SetSlug(""); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewInvalidInputError("Product name cannot exceed 200 characters")
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetSKU sets the stock keeping unit
func (p *Product) SetSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewInvalidInputError("SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewInvalidInputError("SKU cannot exceed 64 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewInvalidInputError("SKU can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	p.SKU = strings.ToUpper(sku)
	p.Touch()
	return nil
}

// SetPrice sets the tax-inclusive shelf price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewInvalidInputError("Price cannot be negative")
	}
	p.Price = price
	p.Touch()
	return nil
}

// SetCostPrice sets the purchase cost
func (p *Product) SetCostPrice(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewInvalidInputError("Cost price cannot be negative")
	}
	p.CostPrice = cost
	p.Touch()
	return nil
}

// SetTaxRate sets the tax rate in percent
func (p *Product) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return shared.NewInvalidInputError("Tax rate must be between 0 and 100")
	}
	p.TaxRate = rate
	p.Touch()
	return nil
}

// SetStock overwrites the on-hand quantity
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewInvalidInputError("Stock cannot be negative")
	}
	p.Stock = stock
	p.Touch()
	return nil
}

// SetWebPrice sets or clears the storefront price override
func (p *Product) SetWebPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewInvalidInputError("Web price cannot be negative")
	}
	p.WebPrice = price
	p.Touch()
	return nil
}

// SetSlug sets the storefront slug. An empty slug is derived from the name.
func (p *Product) SetSlug(slug string) error {
	if strings.TrimSpace(slug) == "" {
		p.Slug = Slugify(p.Name)
	} else {
		s := Slugify(slug)
		if s == "" {
			return shared.NewInvalidInputError("Slug must contain letters or numbers")
		}
		p.Slug = s
	}
	if p.Slug == "" {
		p.Slug = strings.ToLower(p.SKU)
	}
	p.Touch()
	return nil
}

// SetSEO sets the search engine metadata
func (p *Product) SetSEO(title, description, keywords string) {
	p.SEOTitle = strings.TrimSpace(title)
	p.SEODescription = strings.TrimSpace(description)
	p.SEOKeywords = strings.TrimSpace(keywords)
	p.Touch()
}

// EffectivePrice returns the price charged on the storefront
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.WebPrice != nil {
		return *p.WebPrice
	}
	return p.Price
}

// IsVisibleOnline reports whether the storefront may show the product
func (p *Product) IsVisibleOnline() bool {
	return p.IsActive && p.IsPublished
}

// CanFulfil reports whether qty units are on hand
func (p *Product) CanFulfil(qty int) bool {
	return qty > 0 && p.Stock >= qty
}

// Margin returns the margin percentage on the net (tax-exclusive) price.
// Returns 0 when cost is zero.
func (p *Product) Margin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	net := p.Price.Sub(shared.TaxFromInclusive(p.Price, p.TaxRate))
	return shared.RoundMoney(net.Sub(p.CostPrice).Div(p.CostPrice).Mul(decimal.NewFromInt(100)))
}
