package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSaleRepository_FindByID(t *testing.T) {
	t.Run("loads sale with items", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSaleRepository(db)

		saleID, itemID, productID := uuid.New(), uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(saleID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "receipt_number", "channel", "total_amount", "status"}).
				AddRow(saleID, "S20240101-ABCDEF12", "pos", "115.00", "completed"))
		mock.ExpectQuery(`SELECT \* FROM "sale_items" WHERE "sale_items"."sale_id" = \$1 ORDER BY product_name ASC`).
			WithArgs(saleID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "sale_id", "product_id", "product_name", "quantity", "line_total"}).
				AddRow(itemID, saleID, productID, "Espresso Beans", 1, "115.00"))

		sale, err := repo.FindByID(context.Background(), saleID)

		require.NoError(t, err)
		assert.Equal(t, "S20240101-ABCDEF12", sale.ReceiptNumber)
		require.Len(t, sale.Items, 1)
		assert.Equal(t, itemID, sale.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSaleRepository(db)

		saleID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1`).
			WithArgs(saleID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		sale, err := repo.FindByID(context.Background(), saleID)

		assert.Nil(t, sale)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormSaleRepository_FindByIDForUpdate(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormSaleRepository(db)

	saleID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(saleID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "receipt_number"}).AddRow(saleID, "S20240101-00000001"))
	mock.ExpectQuery(`SELECT \* FROM "sale_items" WHERE sale_id = \$1 ORDER BY product_name ASC FOR UPDATE`).
		WithArgs(saleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sale_id"}))

	sale, err := repo.FindByIDForUpdate(context.Background(), saleID)

	require.NoError(t, err)
	assert.Equal(t, saleID, sale.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSaleRepository_FindBetween(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormSaleRepository(db)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE created_at >= \$1 AND created_at < \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs(from, to, 500).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), from.Add(time.Hour)))

	list, err := repo.FindBetween(context.Background(), from, to, 500)

	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSaleRepository_UpdateReturnState(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormSaleRepository(db)

	sale := &sales.Sale{
		ID:             uuid.New(),
		RefundedAmount: decimal.NewFromInt(50),
		RefundedCard:   decimal.Zero,
		Status:         sales.StatusPartiallyReturned,
		UpdatedAt:      time.Now(),
		Items: []sales.SaleItem{
			{ID: uuid.New(), ReturnedQuantity: 1, RefundedAmount: decimal.NewFromInt(50)},
		},
	}

	mock.ExpectExec(`UPDATE "sales" SET "refunded_amount"=\$1,"refunded_card"=\$2,"status"=\$3,"updated_at"=\$4 WHERE id = \$5`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "sale_items" SET "refunded_amount"=\$1,"returned_quantity"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateReturnState(context.Background(), sale))
	assert.NoError(t, mock.ExpectationsWereMet())
}
