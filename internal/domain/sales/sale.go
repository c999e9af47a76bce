package sales

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Channel identifies where a sale was taken
type Channel string

const (
	ChannelPOS    Channel = "pos"
	ChannelOnline Channel = "online"
)

// PaymentMethod summarises how a sale was tendered
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentSplit PaymentMethod = "split"
)

// Status tracks how much of a sale has been returned
type Status string

const (
	StatusCompleted         Status = "completed"
	StatusPartiallyReturned Status = "partially_returned"
	StatusReturned          Status = "returned"
)

// Sale is a completed POS or online transaction.
// All amounts are tax-inclusive except Subtotal, and Subtotal+TaxAmount == TotalAmount.
type Sale struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptNumber   string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Channel         Channel         `gorm:"type:varchar(16);not null;default:'pos'"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName    string          `gorm:"type:varchar(200)"`
	CustomerEmail   string          `gorm:"type:varchar(200)"`
	CustomerPhone   string          `gorm:"type:varchar(50)"`
	ShippingAddress string          `gorm:"type:text"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CashAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CardAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ChangeDue       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(16);not null"`
	RefundedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RefundedCard    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status          Status          `gorm:"type:varchar(24);not null;default:'completed'"`
	Notes           string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one priced line of a sale. Product name, SKU and tax rate are
// copied at sale time so later catalog edits do not change history.
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"column:sku;type:varchar(64);not null"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTax          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineSubtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedQuantity int             `gorm:"not null;default:0"`
	RefundedAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// LineInput describes one line before pricing
type LineInput struct {
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// Tender is the money handed over by the customer
type Tender struct {
	Cash decimal.Decimal
	Card decimal.Decimal
}

// Customer holds the contact details captured for online orders
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewSale prices the lines, applies the discount and settles the tender.
func NewSale(channel Channel, lines []LineInput, discount decimal.Decimal, tender Tender, now time.Time) (*Sale, error) {
	if channel != ChannelPOS && channel != ChannelOnline {
		return nil, shared.NewInvalidInputError("Unknown sale channel")
	}
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("Sale must contain at least one item")
	}

	sale := &Sale{
		ID:             uuid.New(),
		ReceiptNumber:  NewReceiptNumber(now),
		Channel:        channel,
		Status:         StatusCompleted,
		RefundedAmount: decimal.Zero,
		RefundedCard:   decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, l := range lines {
		item, err := newSaleItem(sale.ID, l)
		if err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, *item)
	}

	totals, err := ComputeTotals(sale.Items, discount)
	if err != nil {
		return nil, err
	}
	sale.Subtotal = totals.Subtotal
	sale.TaxAmount = totals.Tax
	sale.DiscountAmount = totals.Discount
	sale.TotalAmount = totals.Total

	if err := sale.settle(tender); err != nil {
		return nil, err
	}
	return sale, nil
}

func newSaleItem(saleID uuid.UUID, l LineInput) (*SaleItem, error) {
	if l.ProductID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Product is required for every item")
	}
	if l.Quantity <= 0 {
		return nil, shared.NewInvalidInputError(fmt.Sprintf("Quantity for %s must be positive", l.ProductName))
	}
	if l.UnitPrice.IsNegative() {
		return nil, shared.NewInvalidInputError(fmt.Sprintf("Price for %s cannot be negative", l.ProductName))
	}
	line := PriceLine(l.Quantity, l.UnitPrice, l.TaxRate)
	return &SaleItem{
		ID:               uuid.New(),
		SaleID:           saleID,
		ProductID:        l.ProductID,
		ProductName:      l.ProductName,
		SKU:              l.SKU,
		Quantity:         l.Quantity,
		UnitPrice:        l.UnitPrice,
		TaxRate:          l.TaxRate,
		LineTotal:        line.Total,
		LineTax:          line.Tax,
		LineSubtotal:     line.Subtotal,
		ReturnedQuantity: 0,
		RefundedAmount:   decimal.Zero,
	}, nil
}

// settle validates the tender against the total and records change
func (s *Sale) settle(t Tender) error {
	if t.Cash.IsNegative() || t.Card.IsNegative() {
		return shared.NewInvalidInputError("Payment amounts cannot be negative")
	}
	if t.Card.GreaterThan(s.TotalAmount) {
		return shared.NewInvalidInputError("Card amount cannot exceed the sale total")
	}
	paid := t.Cash.Add(t.Card)
	if paid.LessThan(s.TotalAmount) {
		return shared.ErrInsufficientPayment
	}

	s.CashAmount = shared.RoundMoney(t.Cash)
	s.CardAmount = shared.RoundMoney(t.Card)
	s.ChangeDue = shared.RoundMoney(paid.Sub(s.TotalAmount))

	switch {
	case s.CardAmount.IsZero():
		s.PaymentMethod = PaymentCash
	case s.CashAmount.IsZero():
		s.PaymentMethod = PaymentCard
	default:
		s.PaymentMethod = PaymentSplit
	}
	return nil
}

// SetCustomer records online customer details
func (s *Sale) SetCustomer(c Customer) {
	s.CustomerName = strings.TrimSpace(c.Name)
	s.CustomerEmail = strings.TrimSpace(c.Email)
	s.CustomerPhone = strings.TrimSpace(c.Phone)
	s.ShippingAddress = strings.TrimSpace(c.Address)
}

// GrossAmount is the sum of line totals before the discount
func (s *Sale) GrossAmount() decimal.Decimal {
	gross := decimal.Zero
	for _, it := range s.Items {
		gross = gross.Add(it.LineTotal)
	}
	return gross
}

// ItemCount returns the number of units sold
func (s *Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// CardRefundable is the part of the card payment not yet refunded
func (s *Sale) CardRefundable() decimal.Decimal {
	r := s.CardAmount.Sub(s.RefundedCard)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// FindItem returns the sale line with the given id
func (s *Sale) FindItem(itemID uuid.UUID) (*SaleItem, error) {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i], nil
		}
	}
	return nil, shared.NewNotFoundError("Sale item")
}

// RemainingQuantity is how many units of the line can still be returned
func (it *SaleItem) RemainingQuantity() int {
	return it.Quantity - it.ReturnedQuantity
}

// ReturnItem marks qty units of a line as returned and returns the refund due.
// The refund carries the line's share of the sale discount; the final units
// of a line refund whatever is left so the line never over- or under-refunds.
func (s *Sale) ReturnItem(itemID uuid.UUID, qty int) (decimal.Decimal, error) {
	it, err := s.FindItem(itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if qty <= 0 {
		return decimal.Zero, shared.NewInvalidInputError("Return quantity must be positive")
	}
	if qty > it.RemainingQuantity() {
		return decimal.Zero, shared.NewDomainError(shared.ErrReturnQuantityExceeded.Code,
			fmt.Sprintf("Cannot return %d of %s: only %d remaining", qty, it.ProductName, it.RemainingQuantity()))
	}

	lineShare := s.lineShare(it)
	var refund decimal.Decimal
	if qty == it.RemainingQuantity() {
		refund = lineShare.Sub(it.RefundedAmount)
	} else {
		refund = shared.RoundMoney(lineShare.Mul(decimal.NewFromInt(int64(qty))).Div(decimal.NewFromInt(int64(it.Quantity))))
	}

	if left := s.TotalAmount.Sub(s.RefundedAmount); refund.GreaterThan(left) {
		refund = left
	}

	it.ReturnedQuantity += qty
	it.RefundedAmount = it.RefundedAmount.Add(refund)
	s.RefundedAmount = s.RefundedAmount.Add(refund)
	s.refreshStatus()
	s.UpdatedAt = time.Now()
	return refund, nil
}

// RecordCardRefund books the card portion of a refund
func (s *Sale) RecordCardRefund(amount decimal.Decimal) error {
	if amount.GreaterThan(s.CardRefundable()) {
		return shared.NewInvalidInputError("Card refund exceeds the card amount still refundable on this sale")
	}
	s.RefundedCard = s.RefundedCard.Add(amount)
	return nil
}

// lineShare is what the customer actually paid for the whole line
func (s *Sale) lineShare(it *SaleItem) decimal.Decimal {
	return s.lineShares()[it.ID]
}

// lineShares splits TotalAmount over the lines in proportion to their line
// totals. Shares are whole cents allocated by largest remainder, so they
// always add up to exactly TotalAmount. Ties go to the lower item id so the
// split is the same however the items were loaded.
func (s *Sale) lineShares() map[uuid.UUID]decimal.Decimal {
	shares := make(map[uuid.UUID]decimal.Decimal, len(s.Items))
	gross := s.GrossAmount()
	if gross.IsZero() || len(s.Items) == 0 {
		for _, it := range s.Items {
			shares[it.ID] = decimal.Zero
		}
		return shares
	}

	cent := decimal.New(1, -shared.MoneyScale)
	total := shared.RoundMoney(s.TotalAmount)
	type part struct {
		id   uuid.UUID
		rest decimal.Decimal
	}
	parts := make([]part, 0, len(s.Items))
	allocated := decimal.Zero
	for _, it := range s.Items {
		exact := it.LineTotal.Mul(total).Div(gross)
		floor := exact.RoundFloor(shared.MoneyScale)
		shares[it.ID] = floor
		allocated = allocated.Add(floor)
		parts = append(parts, part{id: it.ID, rest: exact.Sub(floor)})
	}
	sort.Slice(parts, func(i, j int) bool {
		if c := parts[i].rest.Cmp(parts[j].rest); c != 0 {
			return c > 0
		}
		return parts[i].id.String() < parts[j].id.String()
	})
	left := int(total.Sub(allocated).Div(cent).Round(0).IntPart())
	for i := 0; i < left && i < len(parts); i++ {
		shares[parts[i].id] = shares[parts[i].id].Add(cent)
	}
	return shares
}

func (s *Sale) refreshStatus() {
	returned, sold := 0, 0
	for _, it := range s.Items {
		returned += it.ReturnedQuantity
		sold += it.Quantity
	}
	switch {
	case returned == 0:
		s.Status = StatusCompleted
	case returned >= sold:
		s.Status = StatusReturned
	default:
		s.Status = StatusPartiallyReturned
	}
}

// NewReceiptNumber builds a human readable receipt number such as S20240131-1A2B3C4D
func NewReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "S" + now.Format("20060102") + "-" + suffix
}
