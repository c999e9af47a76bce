package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/returns"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnItemRequest is one sale line being returned
type ReturnItemRequest struct {
	SaleItemID uuid.UUID `json:"sale_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	Reason     string    `json:"reason" binding:"max=500"`
}

// CreateReturnRequest represents a return of one or more lines of a sale.
// RefundCard is only used with the split refund method.
type CreateReturnRequest struct {
	SaleID       uuid.UUID           `json:"sale_id" binding:"required"`
	Items        []ReturnItemRequest `json:"items" binding:"required,min=1,max=200,dive"`
	RefundMethod string              `json:"refund_method" binding:"omitempty,oneof=cash card split"`
	RefundCard   *decimal.Decimal    `json:"refund_card" binding:"omitempty,decimal_gte0"`
}

// ReturnListFilter represents filter options for the returns list
type ReturnListFilter struct {
	SaleID   string `form:"sale_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReturnResponse is a returned line in API responses
type ReturnResponse struct {
	ID           uuid.UUID  `json:"id"`
	ReceiptID    uuid.UUID  `json:"receipt_id"`
	SaleID       uuid.UUID  `json:"sale_id"`
	SaleItemID   uuid.UUID  `json:"sale_item_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	ProductName  string     `json:"product_name"`
	Quantity     int        `json:"quantity"`
	RefundAmount string     `json:"refund_amount"`
	Reason       string     `json:"reason,omitempty"`
	UserID       *uuid.UUID `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ReceiptResponse is a return receipt with its reprint snapshot
type ReceiptResponse struct {
	ID          uuid.UUID               `json:"id"`
	SaleID      uuid.UUID               `json:"sale_id"`
	RefundTotal string                  `json:"refund_total"`
	RefundCash  string                  `json:"refund_cash"`
	RefundCard  string                  `json:"refund_card"`
	Lines       []ReturnResponse        `json:"lines"`
	Payload     *returns.ReceiptPayload `json:"payload"`
	CreatedAt   time.Time               `json:"created_at"`
}

// ToReturnResponse converts a domain Return
func ToReturnResponse(r returns.Return) ReturnResponse {
	return ReturnResponse{
		ID:           r.ID,
		ReceiptID:    r.ReceiptID,
		SaleID:       r.SaleID,
		SaleItemID:   r.SaleItemID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		RefundAmount: shared.FormatMoney(r.RefundAmount),
		Reason:       r.Reason,
		UserID:       r.UserID,
		CreatedAt:    r.CreatedAt,
	}
}

// ToReturnResponses converts a slice of domain Returns
func ToReturnResponses(list []returns.Return) []ReturnResponse {
	out := make([]ReturnResponse, len(list))
	for i, r := range list {
		out[i] = ToReturnResponse(r)
	}
	return out
}

// ToReceiptResponse converts a domain Receipt. A payload that fails to
// decode is left out rather than failing the whole response.
func ToReceiptResponse(r *returns.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ID:          r.ID,
		SaleID:      r.SaleID,
		RefundTotal: shared.FormatMoney(r.RefundTotal),
		RefundCash:  shared.FormatMoney(r.RefundCash),
		RefundCard:  shared.FormatMoney(r.RefundCard),
		Lines:       ToReturnResponses(r.Lines),
		CreatedAt:   r.CreatedAt,
	}
	if payload, err := r.DecodePayload(); err == nil {
		resp.Payload = payload
	}
	return resp
}
