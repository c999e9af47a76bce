package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProductService() (*ProductService, *MockProductRepository, *MockCategoryRepository) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	return NewProductService(productRepo, categoryRepo), productRepo, categoryRepo
}

func newTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Green Tea", "GT-1", decimal.NewFromInt(115))
	require.NoError(t, err)
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with generated slug", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		rate := decimal.NewFromInt(15)
		req := CreateProductRequest{
			Name:    "Green Tea",
			SKU:     "gt-1",
			Price:   decimal.NewFromInt(115),
			TaxRate: &rate,
		}

		productRepo.On("ExistsBySKU", ctx, "GT-1", (*uuid.UUID)(nil)).Return(false, nil)
		productRepo.On("ExistsBySlug", ctx, "green-tea", mock.Anything).Return(false, nil)
		productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "GT-1", resp.SKU)
		assert.Equal(t, "green-tea", resp.Slug)
		assert.Equal(t, "115.00", resp.Price)
		assert.Equal(t, "15.00", resp.TaxRate)
		assert.True(t, resp.IsActive)
		productRepo.AssertExpectations(t)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		productRepo.On("ExistsBySKU", ctx, "GT-1", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, CreateProductRequest{Name: "Green Tea", SKU: "GT-1", Price: decimal.NewFromInt(1)})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, productRepo, categoryRepo := newTestProductService()
		categoryID := uuid.New()
		productRepo.On("ExistsBySKU", ctx, "GT-1", (*uuid.UUID)(nil)).Return(false, nil)
		categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.NewNotFoundError("Category"))

		_, err := svc.Create(ctx, CreateProductRequest{Name: "Green Tea", SKU: "GT-1", Price: decimal.NewFromInt(1), CategoryID: &categoryID})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("derived slug clash gets sku suffix", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		productRepo.On("ExistsBySKU", ctx, "GT-1", (*uuid.UUID)(nil)).Return(false, nil)
		productRepo.On("ExistsBySlug", ctx, "green-tea", mock.Anything).Return(true, nil)
		productRepo.On("ExistsBySlug", ctx, "green-tea-gt-1", mock.Anything).Return(false, nil)
		productRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, CreateProductRequest{Name: "Green Tea", SKU: "GT-1", Price: decimal.NewFromInt(1)})

		require.NoError(t, err)
		assert.Equal(t, "green-tea-gt-1", resp.Slug)
	})

	t.Run("explicit slug clash", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		productRepo.On("ExistsBySKU", ctx, "GT-1", (*uuid.UUID)(nil)).Return(false, nil)
		productRepo.On("ExistsBySlug", ctx, "tea", mock.Anything).Return(true, nil)

		_, err := svc.Create(ctx, CreateProductRequest{Name: "Green Tea", SKU: "GT-1", Price: decimal.NewFromInt(1), Slug: "tea"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("invalid tax rate", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		rate := decimal.NewFromInt(150)
		productRepo.On("ExistsBySKU", ctx, "GT-1", (*uuid.UUID)(nil)).Return(false, nil)

		_, err := svc.Create(ctx, CreateProductRequest{Name: "Green Tea", SKU: "GT-1", Price: decimal.NewFromInt(1), TaxRate: &rate})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _ := newTestProductService()
	categoryID := uuid.New()
	active := true

	productRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 100 && f.OrderBy == "name" && f.OrderDir == "asc" &&
			f.Filters[catalog.FilterCategoryID] == categoryID && f.Filters[catalog.FilterActive] == true
	})).Return([]catalog.Product{*newTestProduct(t)}, int64(1), nil)

	items, total, err := svc.List(ctx, ProductListFilter{CategoryID: categoryID.String(), IsActive: &active, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Green Tea", items[0].Name)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		product := newTestProduct(t)
		price := decimal.RequireFromString("99.5")
		web := decimal.NewFromInt(90)
		published := true

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Price: &price, WebPrice: &web, IsPublished: &published})

		require.NoError(t, err)
		assert.Equal(t, "99.50", resp.Price)
		require.NotNil(t, resp.WebPrice)
		assert.Equal(t, "90.00", *resp.WebPrice)
		assert.True(t, resp.IsPublished)
		assert.Equal(t, "Green Tea", resp.Name)
	})

	t.Run("clear web price and category", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		product := newTestProduct(t)
		web := decimal.NewFromInt(90)
		categoryID := uuid.New()
		product.WebPrice = &web
		product.CategoryID = &categoryID

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{ClearWebPrice: true, ClearCategory: true})

		require.NoError(t, err)
		assert.Nil(t, resp.WebPrice)
		assert.Nil(t, resp.CategoryID)
	})

	t.Run("sku taken by another product", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		product := newTestProduct(t)
		sku := "OTHER"

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("ExistsBySKU", ctx, "OTHER", &product.ID).Return(true, nil)

		_, err := svc.Update(ctx, product.ID, UpdateProductRequest{SKU: &sku})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		svc, productRepo, _ := newTestProductService()
		id := uuid.New()
		productRepo.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("Product"))

		_, err := svc.Update(ctx, id, UpdateProductRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_SetCategories(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	t.Run("deduplicates and replaces", func(t *testing.T) {
		svc, productRepo, categoryRepo := newTestProductService()
		product := newTestProduct(t)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		categoryRepo.On("CountByIDs", ctx, []uuid.UUID{a, b}).Return(int64(2), nil)
		productRepo.On("ReplaceCategories", ctx, product.ID, []uuid.UUID{a, b}).Return(nil)

		_, err := svc.SetCategories(ctx, product.ID, SetCategoriesRequest{CategoryIDs: []uuid.UUID{a, b, a}})

		require.NoError(t, err)
		productRepo.AssertExpectations(t)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, productRepo, categoryRepo := newTestProductService()
		product := newTestProduct(t)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		categoryRepo.On("CountByIDs", ctx, []uuid.UUID{a, b}).Return(int64(1), nil)

		_, err := svc.SetCategories(ctx, product.ID, SetCategoriesRequest{CategoryIDs: []uuid.UUID{a, b}})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		productRepo.AssertNotCalled(t, "ReplaceCategories", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_AddImage(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _ := newTestProductService()
	product := newTestProduct(t)

	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	productRepo.On("AddImage", ctx, mock.MatchedBy(func(img *catalog.ProductImage) bool {
		return img.ProductID == product.ID && img.IsPrimary
	})).Return(nil)

	resp, err := svc.AddImage(ctx, product.ID, AddImageRequest{URL: " https://cdn.example.com/tea.png ", IsPrimary: true})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/tea.png", resp.URL)
	assert.True(t, resp.IsPrimary)
}
