package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchase(t *testing.T) *purchasing.Purchase {
	t.Helper()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	p, err := purchasing.NewPurchase(uuid.New(), "INV-1", "", now, []purchasing.PurchaseLine{
		{ProductID: uuid.New(), Quantity: 2, UnitCost: decimal.NewFromInt(5)},
	}, now)
	require.NoError(t, err)
	return p
}

func TestGormPurchaseRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts purchase then items", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormPurchaseRepository(db)

		mock.ExpectExec(`INSERT INTO "purchases"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "purchase_items"`).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, newTestPurchase(t)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product is invalid input", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormPurchaseRepository(db)

		mock.ExpectExec(`INSERT INTO "purchases"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "purchase_items"`).
			WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

		err := repo.Create(ctx, newTestPurchase(t))

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown vendor is invalid input", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormPurchaseRepository(db)

		mock.ExpectExec(`INSERT INTO "purchases"`).
			WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

		err := repo.Create(ctx, newTestPurchase(t))

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
