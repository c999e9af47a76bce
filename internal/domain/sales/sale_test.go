package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty int, price, rate string) LineInput {
	return LineInput{
		ProductID:   uuid.New(),
		ProductName: "Item",
		SKU:         "SKU",
		Quantity:    qty,
		UnitPrice:   d(price),
		TaxRate:     d(rate),
	}
}

func TestPriceLine_TaxInclusive(t *testing.T) {
	got := PriceLine(1, d("115"), d("15"))
	assert.Equal(t, "115.00", got.Total.StringFixed(2))
	assert.Equal(t, "15.00", got.Tax.StringFixed(2))
	assert.Equal(t, "100.00", got.Subtotal.StringFixed(2))

	noTax := PriceLine(3, d("2.50"), d("0"))
	assert.Equal(t, "7.50", noTax.Total.StringFixed(2))
	assert.True(t, noTax.Tax.IsZero())
}

func TestNewSale(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("single taxed line paid in cash with change", func(t *testing.T) {
		sale, err := NewSale(ChannelPOS, []LineInput{line(1, "115", "15")}, decimal.Zero, Tender{Cash: d("120")}, now)
		require.NoError(t, err)
		assert.Equal(t, "100.00", sale.Subtotal.StringFixed(2))
		assert.Equal(t, "15.00", sale.TaxAmount.StringFixed(2))
		assert.Equal(t, "115.00", sale.TotalAmount.StringFixed(2))
		assert.Equal(t, "5.00", sale.ChangeDue.StringFixed(2))
		assert.Equal(t, PaymentCash, sale.PaymentMethod)
		assert.Equal(t, StatusCompleted, sale.Status)
		assert.Contains(t, sale.ReceiptNumber, "S20240301-")
		require.Len(t, sale.Items, 1)
		assert.Equal(t, sale.ID, sale.Items[0].SaleID)
	})

	t.Run("discount scales tax", func(t *testing.T) {
		sale, err := NewSale(ChannelPOS, []LineInput{line(2, "115", "15")}, d("23"), Tender{Card: d("207")}, now)
		require.NoError(t, err)
		assert.Equal(t, "207.00", sale.TotalAmount.StringFixed(2))
		assert.Equal(t, "27.00", sale.TaxAmount.StringFixed(2))
		assert.Equal(t, "180.00", sale.Subtotal.StringFixed(2))
		assert.True(t, sale.Subtotal.Add(sale.TaxAmount).Equal(sale.TotalAmount))
		assert.Equal(t, PaymentCard, sale.PaymentMethod)
	})

	t.Run("split payment", func(t *testing.T) {
		sale, err := NewSale(ChannelPOS, []LineInput{line(1, "50", "0")}, decimal.Zero, Tender{Cash: d("20"), Card: d("30")}, now)
		require.NoError(t, err)
		assert.Equal(t, PaymentSplit, sale.PaymentMethod)
		assert.True(t, sale.ChangeDue.IsZero())
	})

	t.Run("insufficient payment", func(t *testing.T) {
		_, err := NewSale(ChannelPOS, []LineInput{line(1, "50", "0")}, decimal.Zero, Tender{Cash: d("49.99")}, now)
		assert.ErrorIs(t, err, shared.ErrInsufficientPayment)
	})

	t.Run("card above total", func(t *testing.T) {
		_, err := NewSale(ChannelPOS, []LineInput{line(1, "50", "0")}, decimal.Zero, Tender{Card: d("60")}, now)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("discount above gross", func(t *testing.T) {
		_, err := NewSale(ChannelPOS, []LineInput{line(1, "10", "0")}, d("11"), Tender{Cash: d("10")}, now)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("empty sale", func(t *testing.T) {
		_, err := NewSale(ChannelPOS, nil, decimal.Zero, Tender{}, now)
		assert.Error(t, err)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewSale(ChannelPOS, []LineInput{line(0, "10", "0")}, decimal.Zero, Tender{Cash: d("10")}, now)
		assert.Error(t, err)
	})
}

func TestSale_ReturnItem(t *testing.T) {
	now := time.Now()

	t.Run("partial then full return refunds exactly the paid amount", func(t *testing.T) {
		sale, err := NewSale(ChannelPOS, []LineInput{line(3, "10", "0")}, d("1"), Tender{Cash: d("29")}, now)
		require.NoError(t, err)
		itemID := sale.Items[0].ID

		r1, err := sale.ReturnItem(itemID, 1)
		require.NoError(t, err)
		assert.Equal(t, "9.67", r1.StringFixed(2))
		assert.Equal(t, StatusPartiallyReturned, sale.Status)

		r2, err := sale.ReturnItem(itemID, 2)
		require.NoError(t, err)
		assert.Equal(t, "19.33", r2.StringFixed(2))
		assert.Equal(t, StatusReturned, sale.Status)
		assert.Equal(t, "29.00", sale.RefundedAmount.StringFixed(2))
	})

	t.Run("discount spread over lines never refunds more than was paid", func(t *testing.T) {
		lines := []LineInput{line(1, "10", "0"), line(1, "10", "0"), line(1, "10", "0")}
		sale, err := NewSale(ChannelPOS, lines, d("10"), Tender{Cash: d("20")}, now)
		require.NoError(t, err)
		require.Equal(t, "20.00", sale.TotalAmount.StringFixed(2))

		var refunds []string
		for _, it := range sale.Items {
			r, err := sale.ReturnItem(it.ID, 1)
			require.NoError(t, err)
			refunds = append(refunds, r.StringFixed(2))
		}

		assert.ElementsMatch(t, []string{"6.67", "6.67", "6.66"}, refunds)
		assert.Equal(t, "20.00", sale.RefundedAmount.StringFixed(2))
		assert.Equal(t, StatusReturned, sale.Status)
	})

	t.Run("line shares add up to the sale total", func(t *testing.T) {
		lines := []LineInput{line(1, "3.33", "0"), line(2, "7.01", "0"), line(1, "0.99", "0"), line(4, "1.11", "0")}
		sale, err := NewSale(ChannelPOS, lines, d("2.5"), Tender{Cash: d("100")}, now)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, share := range sale.lineShares() {
			sum = sum.Add(share)
		}
		assert.True(t, sum.Equal(sale.TotalAmount), "shares %s != total %s", sum, sale.TotalAmount)
	})

	t.Run("cannot exceed sold quantity", func(t *testing.T) {
		sale, err := NewSale(ChannelPOS, []LineInput{line(2, "10", "0")}, decimal.Zero, Tender{Cash: d("20")}, now)
		require.NoError(t, err)
		itemID := sale.Items[0].ID

		_, err = sale.ReturnItem(itemID, 1)
		require.NoError(t, err)
		_, err = sale.ReturnItem(itemID, 2)
		assert.ErrorIs(t, err, shared.ErrReturnQuantityExceeded)
	})

	t.Run("unknown item", func(t *testing.T) {
		sale, err := NewSale(ChannelPOS, []LineInput{line(1, "10", "0")}, decimal.Zero, Tender{Cash: d("10")}, now)
		require.NoError(t, err)
		_, err = sale.ReturnItem(uuid.New(), 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSale_RecordCardRefund(t *testing.T) {
	sale, err := NewSale(ChannelPOS, []LineInput{line(1, "50", "0")}, decimal.Zero, Tender{Cash: d("20"), Card: d("30")}, time.Now())
	require.NoError(t, err)

	require.NoError(t, sale.RecordCardRefund(d("25")))
	assert.Equal(t, "5.00", sale.CardRefundable().StringFixed(2))
	assert.Error(t, sale.RecordCardRefund(d("6")))
}

func TestQuote(t *testing.T) {
	items, totals, err := Quote([]LineInput{line(1, "115", "15"), line(2, "5", "0")}, decimal.Zero)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "125.00", totals.Total.StringFixed(2))
	assert.Equal(t, "15.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "110.00", totals.Subtotal.StringFixed(2))
}
