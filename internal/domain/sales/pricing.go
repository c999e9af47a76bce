package sales

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineAmounts is a priced line. Total is tax-inclusive.
type LineAmounts struct {
	Total    decimal.Decimal
	Tax      decimal.Decimal
	Subtotal decimal.Decimal
}

// PriceLine computes quantity x price and splits out the included tax
func PriceLine(qty int, unitPrice, taxRate decimal.Decimal) LineAmounts {
	total := shared.RoundMoney(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
	tax := shared.RoundMoney(shared.TaxFromInclusive(total, taxRate))
	return LineAmounts{
		Total:    total,
		Tax:      tax,
		Subtotal: total.Sub(tax),
	}
}

// Totals are the sale level amounts after discount
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Tax      decimal.Decimal
	Subtotal decimal.Decimal
}

// ComputeTotals sums priced lines and applies a flat discount to the
// tax-inclusive gross. Tax shrinks in proportion to the discount.
func ComputeTotals(items []SaleItem, discount decimal.Decimal) (Totals, error) {
	gross, tax := decimal.Zero, decimal.Zero
	for _, it := range items {
		gross = gross.Add(it.LineTotal)
		tax = tax.Add(it.LineTax)
	}

	discount = shared.RoundMoney(discount)
	if discount.IsNegative() {
		return Totals{}, shared.NewInvalidInputError("Discount cannot be negative")
	}
	if discount.GreaterThan(gross) {
		return Totals{}, shared.NewInvalidInputError("Discount cannot exceed the sale amount")
	}

	total := gross.Sub(discount)
	if !discount.IsZero() {
		if gross.IsZero() {
			tax = decimal.Zero
		} else {
			tax = shared.RoundMoney(tax.Mul(total).Div(gross))
		}
	}

	return Totals{
		Gross:    gross,
		Discount: discount,
		Total:    total,
		Tax:      tax,
		Subtotal: total.Sub(tax),
	}, nil
}

// Quote prices lines without creating a sale, for carts and previews
func Quote(lines []LineInput, discount decimal.Decimal) ([]SaleItem, Totals, error) {
	items := make([]SaleItem, 0, len(lines))
	for _, l := range lines {
		it, err := newSaleItem(uuid.Nil, l)
		if err != nil {
			return nil, Totals{}, err
		}
		items = append(items, *it)
	}
	totals, err := ComputeTotals(items, discount)
	if err != nil {
		return nil, Totals{}, err
	}
	return items, totals, nil
}
