package returns

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RefundMethod is how a refund is paid back to the customer
type RefundMethod string

const (
	RefundCash  RefundMethod = "cash"
	RefundCard  RefundMethod = "card"
	RefundSplit RefundMethod = "split"
)

// Return records one returned sale line
type Return struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason       string          `gorm:"type:varchar(500)"`
	UserID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// Receipt is the reprintable record of one return transaction.
// Payload holds the JSON snapshot printed on the slip.
type Receipt struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	RefundTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundCash  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RefundCard  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Payload     string          `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time       `gorm:"not null;index"`

	Lines []Return `gorm:"foreignKey:ReceiptID"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "return_receipts"
}

// ReceiptPayload is the snapshot stored with a receipt
type ReceiptPayload struct {
	Business      BusinessHeader `json:"business"`
	SaleID        uuid.UUID      `json:"sale_id"`
	SaleReceiptNo string         `json:"sale_receipt_number"`
	Lines         []ReceiptLine  `json:"lines"`
	RefundTotal   string         `json:"refund_total"`
	RefundCash    string         `json:"refund_cash"`
	RefundCard    string         `json:"refund_card"`
	Currency      string         `json:"currency"`
	Cashier       string         `json:"cashier,omitempty"`
	IssuedAt      time.Time      `json:"issued_at"`
}

// BusinessHeader is the shop identity printed at the top of a slip
type BusinessHeader struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxNumber string `json:"tax_number,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
	Footer    string `json:"footer,omitempty"`
}

// ReceiptLine is one returned line on the slip
type ReceiptLine struct {
	ProductName  string `json:"product_name"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	RefundAmount string `json:"refund_amount"`
	Reason       string `json:"reason,omitempty"`
}

// SplitRefund divides a refund between cash and card.
// For split refunds cardRequested is the card share; the rest goes to cash.
func SplitRefund(total decimal.Decimal, method RefundMethod, cardRequested decimal.Decimal) (cash, card decimal.Decimal, err error) {
	switch method {
	case "", RefundCash:
		return total, decimal.Zero, nil
	case RefundCard:
		return decimal.Zero, total, nil
	case RefundSplit:
		cardRequested = shared.RoundMoney(cardRequested)
		if cardRequested.IsNegative() || cardRequested.GreaterThan(total) {
			return decimal.Zero, decimal.Zero, shared.NewInvalidInputError("Card refund must be between 0 and the refund total")
		}
		return total.Sub(cardRequested), cardRequested, nil
	default:
		return decimal.Zero, decimal.Zero, shared.NewInvalidInputError("Refund method must be cash, card or split")
	}
}

// NewReceipt assembles a receipt with its lines and payload snapshot
func NewReceipt(saleID uuid.UUID, lines []Return, cash, card decimal.Decimal, payload ReceiptPayload, now time.Time) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("A return must contain at least one item")
	}
	r := &Receipt{
		ID:         uuid.New(),
		SaleID:     saleID,
		RefundCash: cash,
		RefundCard: card,
		CreatedAt:  now,
	}

	total := decimal.Zero
	for i := range lines {
		lines[i].ReceiptID = r.ID
		lines[i].SaleID = saleID
		lines[i].CreatedAt = now
		total = total.Add(lines[i].RefundAmount)
	}
	if !cash.Add(card).Equal(total) {
		return nil, shared.NewInvalidInputError("Refund breakdown does not match the refund total")
	}
	r.RefundTotal = total
	r.Lines = lines

	payload.SaleID = saleID
	payload.RefundTotal = total.StringFixed(2)
	payload.RefundCash = cash.StringFixed(2)
	payload.RefundCard = card.StringFixed(2)
	payload.IssuedAt = now
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	r.Payload = string(raw)
	return r, nil
}

// NewReturnLine creates a return line for a sale item
func NewReturnLine(saleItemID, productID uuid.UUID, productName string, qty int, refund decimal.Decimal, reason string, userID *uuid.UUID) Return {
	return Return{
		ID:           uuid.New(),
		SaleItemID:   saleItemID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     qty,
		RefundAmount: refund,
		Reason:       strings.TrimSpace(reason),
		UserID:       userID,
	}
}

// DecodePayload parses the stored snapshot
func (r *Receipt) DecodePayload() (*ReceiptPayload, error) {
	var p ReceiptPayload
	if err := json.Unmarshal([]byte(r.Payload), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
