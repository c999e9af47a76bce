package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one cart line. UnitPrice overrides the catalog price at the till.
type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1,max=10000"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,decimal_gte0"`
}

// CreateSaleRequest represents a POS checkout
type CreateSaleRequest struct {
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,max=200,dive"`
	Discount   decimal.Decimal   `json:"discount" binding:"decimal_gte0"`
	CashAmount decimal.Decimal   `json:"cash_amount" binding:"decimal_gte0"`
	CardAmount decimal.Decimal   `json:"card_amount" binding:"decimal_gte0"`
	Notes      string            `json:"notes" binding:"max=1000"`
}

// OnlinePayment is how a storefront order is paid
type OnlinePayment string

const (
	OnlinePaymentCard           OnlinePayment = "card"
	OnlinePaymentCashOnDelivery OnlinePayment = "cash_on_delivery"
)

// OnlineOrder is a storefront checkout. Prices always come from the catalog.
type OnlineOrder struct {
	Items         []SaleItemRequest
	Customer      sales.Customer
	PaymentMethod OnlinePayment
	Notes         string
}

// SaleListFilter represents filter options for the sales list.
// From and To are inclusive dates in the business timezone.
type SaleListFilter struct {
	Search   string `form:"search"`
	Channel  string `form:"channel" binding:"omitempty,oneof=pos online"`
	Status   string `form:"status" binding:"omitempty,oneof=completed partially_returned returned"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SaleItemResponse is a sale line in API responses
type SaleItemResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	SKU              string    `json:"sku"`
	Quantity         int       `json:"quantity"`
	UnitPrice        string    `json:"unit_price"`
	TaxRate          string    `json:"tax_rate"`
	LineTotal        string    `json:"line_total"`
	LineTax          string    `json:"line_tax"`
	LineSubtotal     string    `json:"line_subtotal"`
	ReturnedQuantity int       `json:"returned_quantity"`
	RefundedAmount   string    `json:"refunded_amount"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID              uuid.UUID          `json:"id"`
	ReceiptNumber   string             `json:"receipt_number"`
	Channel         string             `json:"channel"`
	UserID          *uuid.UUID         `json:"user_id"`
	CustomerName    string             `json:"customer_name,omitempty"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	CustomerPhone   string             `json:"customer_phone,omitempty"`
	ShippingAddress string             `json:"shipping_address,omitempty"`
	Subtotal        string             `json:"subtotal"`
	TaxAmount       string             `json:"tax_amount"`
	DiscountAmount  string             `json:"discount_amount"`
	TotalAmount     string             `json:"total_amount"`
	CashAmount      string             `json:"cash_amount"`
	CardAmount      string             `json:"card_amount"`
	ChangeDue       string             `json:"change_due"`
	PaymentMethod   string             `json:"payment_method"`
	RefundedAmount  string             `json:"refunded_amount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes,omitempty"`
	ItemCount       int                `json:"item_count"`
	Items           []SaleItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ToSaleResponse converts a domain Sale
func ToSaleResponse(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:              s.ID,
		ReceiptNumber:   s.ReceiptNumber,
		Channel:         string(s.Channel),
		UserID:          s.UserID,
		CustomerName:    s.CustomerName,
		CustomerEmail:   s.CustomerEmail,
		CustomerPhone:   s.CustomerPhone,
		ShippingAddress: s.ShippingAddress,
		Subtotal:        shared.FormatMoney(s.Subtotal),
		TaxAmount:       shared.FormatMoney(s.TaxAmount),
		DiscountAmount:  shared.FormatMoney(s.DiscountAmount),
		TotalAmount:     shared.FormatMoney(s.TotalAmount),
		CashAmount:      shared.FormatMoney(s.CashAmount),
		CardAmount:      shared.FormatMoney(s.CardAmount),
		ChangeDue:       shared.FormatMoney(s.ChangeDue),
		PaymentMethod:   string(s.PaymentMethod),
		RefundedAmount:  shared.FormatMoney(s.RefundedAmount),
		Status:          string(s.Status),
		Notes:           s.Notes,
		ItemCount:       s.ItemCount(),
		CreatedAt:       s.CreatedAt,
	}
	if len(s.Items) > 0 {
		resp.Items = make([]SaleItemResponse, len(s.Items))
		for i, it := range s.Items {
			resp.Items[i] = ToSaleItemResponse(it)
		}
	}
	return resp
}

// ToSaleItemResponse converts a domain SaleItem
func ToSaleItemResponse(it sales.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:               it.ID,
		ProductID:        it.ProductID,
		ProductName:      it.ProductName,
		SKU:              it.SKU,
		Quantity:         it.Quantity,
		UnitPrice:        shared.FormatMoney(it.UnitPrice),
		TaxRate:          it.TaxRate.StringFixed(2),
		LineTotal:        shared.FormatMoney(it.LineTotal),
		LineTax:          shared.FormatMoney(it.LineTax),
		LineSubtotal:     shared.FormatMoney(it.LineSubtotal),
		ReturnedQuantity: it.ReturnedQuantity,
		RefundedAmount:   shared.FormatMoney(it.RefundedAmount),
	}
}

// ToSaleResponses converts a slice of domain Sales
func ToSaleResponses(list []sales.Sale) []SaleResponse {
	out := make([]SaleResponse, len(list))
	for i := range list {
		out[i] = ToSaleResponse(&list[i])
	}
	return out
}
