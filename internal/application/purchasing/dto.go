package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VendorRequest creates or replaces a vendor
type VendorRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address" binding:"max=1000"`
	Notes       string `json:"notes" binding:"max=2000"`
	IsActive    *bool  `json:"is_active"`
}

// VendorListFilter represents filter options for the vendor list
type VendorListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PurchaseItemRequest is one received product line
type PurchaseItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1,max=1000000"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"decimal_gte0"`
}

// CreatePurchaseRequest records a delivery from a vendor
type CreatePurchaseRequest struct {
	VendorID    uuid.UUID             `json:"vendor_id" binding:"required"`
	Reference   string                `json:"reference" binding:"max=100"`
	Notes       string                `json:"notes" binding:"max=2000"`
	PurchasedAt *time.Time            `json:"purchased_at"`
	Items       []PurchaseItemRequest `json:"items" binding:"required,min=1,max=500,dive"`
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	Search   string `form:"search"`
	VendorID string `form:"vendor_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PurchaseItemResponse is a purchase line in API responses
type PurchaseItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitCost  string    `json:"unit_cost"`
	LineTotal string    `json:"line_total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID          uuid.UUID              `json:"id"`
	VendorID    uuid.UUID              `json:"vendor_id"`
	VendorName  string                 `json:"vendor_name,omitempty"`
	Reference   string                 `json:"reference"`
	TotalAmount string                 `json:"total_amount"`
	Notes       string                 `json:"notes"`
	PurchasedAt time.Time              `json:"purchased_at"`
	UserID      *uuid.UUID             `json:"user_id"`
	Items       []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ToVendorResponse converts a domain Vendor
func ToVendorResponse(v *purchasing.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		Name:        v.Name,
		ContactName: v.ContactName,
		Phone:       v.Phone,
		Email:       v.Email,
		Address:     v.Address,
		Notes:       v.Notes,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// ToPurchaseResponse converts a domain Purchase
func ToPurchaseResponse(p *purchasing.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Reference:   p.Reference,
		TotalAmount: shared.FormatMoney(p.TotalAmount),
		Notes:       p.Notes,
		PurchasedAt: p.PurchasedAt,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
	}
	if p.Vendor != nil {
		resp.VendorName = p.Vendor.Name
	}
	if len(p.Items) > 0 {
		resp.Items = make([]PurchaseItemResponse, len(p.Items))
		for i, it := range p.Items {
			resp.Items[i] = PurchaseItemResponse{
				ID:        it.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitCost:  shared.FormatMoney(it.UnitCost),
				LineTotal: shared.FormatMoney(it.LineTotal),
			}
		}
	}
	return resp
}
