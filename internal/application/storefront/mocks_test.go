package storefront

import (
	"context"

	"github.com/google/uuid"
	appsales "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository serves the storefront read methods only
type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

// MockCategoryRepository serves FindAll only
type MockCategoryRepository struct {
	catalog.CategoryRepository
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

// MockSettingsRepository serves shop content only
type MockSettingsRepository struct {
	settings.Repository
	mock.Mock
}

func (m *MockSettingsRepository) GetShopContent(ctx context.Context) (*settings.ShopContent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.ShopContent), args.Error(1)
}

// MockOrderPlacer is a mock implementation of OrderPlacer
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) CreateOnlineSale(ctx context.Context, key string, order appsales.OnlineOrder) (*appsales.SaleResponse, error) {
	args := m.Called(ctx, key, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsales.SaleResponse), args.Error(1)
}
