package catalog

import (
	"strings"

	"github.com/retailpos/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Category groups products for the back office and the storefront
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category. Names are stored title-cased.
func NewCategory(name, description string) (*Category, error) {
	c := &Category{BaseEntity: shared.NewBaseEntity()}
	if err := c.Update(name, description, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the category's name, description and ordering
func (c *Category) Update(name, description string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewInvalidInputError("Category name cannot exceed 100 characters")
	}
	slug := Slugify(name)
	if slug == "" {
		return shared.NewInvalidInputError("Category name must contain letters or numbers")
	}
	c.Name = titleCaser.String(name)
	c.Slug = slug
	c.Description = strings.TrimSpace(description)
	c.SortOrder = sortOrder
	c.Touch()
	return nil
}
