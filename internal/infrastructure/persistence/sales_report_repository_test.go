package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockReportRepository(t *testing.T) (*SqlxSalesReportRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewSqlxSalesReportRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestSqlxSalesReportRepository_SalesTotals(t *testing.T) {
	repo, mock := newMockReportRepository(t)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`FROM sales s\s+WHERE s.created_at >= \$1 AND s.created_at < \$2`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{
			"sales_count", "gross_sales", "subtotal", "tax", "discount", "cash_collected", "card_collected", "items_sold",
		}).AddRow(2, "230.00", "200.00", "30.00", "0.00", "115.00", "115.00", 2))

	totals, err := repo.SalesTotals(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.SalesCount)
	assert.True(t, decimal.RequireFromString("230").Equal(totals.GrossSales))
	assert.True(t, decimal.RequireFromString("30").Equal(totals.Tax))
	assert.Equal(t, int64(2), totals.ItemsSold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlxSalesReportRepository_RefundTotals(t *testing.T) {
	repo, mock := newMockReportRepository(t)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`FROM return_receipts`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"refunds_count", "refunds_total", "refunds_cash", "refunds_card"}).
			AddRow(1, "57.50", "57.50", "0"))

	totals, err := repo.RefundTotals(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.RefundsCount)
	assert.True(t, decimal.RequireFromString("57.5").Equal(totals.RefundsTotal))
}

func TestSqlxSalesReportRepository_TopProducts(t *testing.T) {
	t.Run("maps rows", func(t *testing.T) {
		repo, mock := newMockReportRepository(t)
		from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)
		productID := uuid.New()

		mock.ExpectQuery(`GROUP BY si.product_id`).
			WithArgs(from, to, 5).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "sku", "quantity", "revenue"}).
				AddRow(productID.String(), "Espresso Beans", "ESP-1", 7, "805.00"))

		top, err := repo.TopProducts(context.Background(), from, to, 5)

		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, productID, top[0].ProductID)
		assert.Equal(t, int64(7), top[0].Quantity)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		repo, mock := newMockReportRepository(t)
		mock.ExpectQuery(`GROUP BY si.product_id`).WillReturnError(errors.New("timeout"))

		_, err := repo.TopProducts(context.Background(), time.Now(), time.Now(), 5)

		assert.ErrorContains(t, err, "top products")
	})
}
