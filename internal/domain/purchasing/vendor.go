package purchasing

import (
	"net/mail"
	"strings"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Vendor supplies stock to the shop
type Vendor struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	ContactName string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200)"`
	Address     string `gorm:"type:text"`
	Notes       string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// VendorDetails are the editable vendor fields
type VendorDetails struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Notes       string
}

// NewVendor creates an active vendor
func NewVendor(d VendorDetails) (*Vendor, error) {
	v := &Vendor{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := v.Update(d); err != nil {
		return nil, err
	}
	return v, nil
}

// Update replaces the vendor's details
func (v *Vendor) Update(d VendorDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewInvalidInputError("Vendor name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewInvalidInputError("Vendor name cannot exceed 200 characters")
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewInvalidInputError("Invalid email format")
		}
	}
	v.Name = name
	v.ContactName = strings.TrimSpace(d.ContactName)
	v.Phone = strings.TrimSpace(d.Phone)
	v.Email = email
	v.Address = strings.TrimSpace(d.Address)
	v.Notes = strings.TrimSpace(d.Notes)
	v.Touch()
	return nil
}
