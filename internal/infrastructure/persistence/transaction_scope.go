package persistence

import (
	"context"

	"github.com/retailpos/backend/internal/application/transaction"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/returns"
	"github.com/retailpos/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction; an error rolls everything back
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) Returns() returns.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

func (r *gormTransactionalRepositories) Purchases() purchasing.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

var _ transaction.Scope = (*GormTransactionScope)(nil)
var _ transaction.Repositories = (*gormTransactionalRepositories)(nil)
