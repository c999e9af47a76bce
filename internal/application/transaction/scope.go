// Package transaction gives application services atomic access to the
// repositories that must change together.
package transaction

import (
	"context"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/returns"
	"github.com/retailpos/backend/internal/domain/sales"
)

// Scope runs a function inside one database transaction.
// If the function returns an error, the transaction is rolled back.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories are scoped to the running transaction
type Repositories interface {
	Products() catalog.ProductRepository
	Sales() sales.SaleRepository
	Returns() returns.ReturnRepository
	Purchases() purchasing.PurchaseRepository
}

// NoOpScope runs functions against plain repositories without a transaction.
// This is useful for testing.
type NoOpScope struct {
	products  catalog.ProductRepository
	sales     sales.SaleRepository
	returns   returns.ReturnRepository
	purchases purchasing.PurchaseRepository
}

// NewNoOpScope creates a NoOpScope with the given repositories. Any of them may be nil.
func NewNoOpScope(
	products catalog.ProductRepository,
	saleRepo sales.SaleRepository,
	returnRepo returns.ReturnRepository,
	purchases purchasing.PurchaseRepository,
) *NoOpScope {
	return &NoOpScope{
		products:  products,
		sales:     saleRepo,
		returns:   returnRepo,
		purchases: purchases,
	}
}

// Execute runs fn directly
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *NoOpScope) Products() catalog.ProductRepository      { return s.products }
func (s *NoOpScope) Sales() sales.SaleRepository              { return s.sales }
func (s *NoOpScope) Returns() returns.ReturnRepository        { return s.returns }
func (s *NoOpScope) Purchases() purchasing.PurchaseRepository { return s.purchases }

var _ Scope = (*NoOpScope)(nil)
var _ Repositories = (*NoOpScope)(nil)
