package storefront

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appsales "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	settings   *MockSettingsRepository
	orders     *MockOrderPlacer
	svc        *Service
}

func newFixture() *fixture {
	f := &fixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		settings:   new(MockSettingsRepository),
		orders:     new(MockOrderPlacer),
	}
	f.svc = NewService(f.products, f.categories, f.settings, f.orders, nil)
	return f
}

func publishedProduct(name string, price string, stock int) catalog.Product {
	return catalog.Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		SKU:         "SKU-" + name,
		Slug:        catalog.Slugify(name),
		Price:       decimal.RequireFromString(price),
		TaxRate:     decimal.NewFromInt(15),
		Stock:       stock,
		IsActive:    true,
		IsPublished: true,
	}
}

func TestService_Catalog(t *testing.T) {
	ctx := context.Background()

	t.Run("lists published active products in a category", func(t *testing.T) {
		f := newFixture()
		categoryID := uuid.New()
		p := publishedProduct("Blue Mug", "12.00", 4)
		web := decimal.RequireFromString("9.99")
		p.WebPrice = &web
		p.Images = []catalog.ProductImage{{URL: "/a.png"}, {URL: "/b.png", IsPrimary: true}}

		f.products.On("FindAll", ctx, mock.MatchedBy(func(flt shared.Filter) bool {
			return flt.Filters[catalog.FilterPublished] == true &&
				flt.Filters[catalog.FilterActive] == true &&
				flt.Filters[catalog.FilterAnyCategory] == categoryID &&
				flt.OrderBy == "" && flt.Search == "mug" && flt.Page == 2 && flt.PageSize == 12
		})).Return([]catalog.Product{p}, int64(13), nil)

		cards, total, err := f.svc.Catalog(ctx, CatalogFilter{Search: " mug", CategoryID: categoryID.String(), Page: 2, PageSize: 12})

		require.NoError(t, err)
		assert.Equal(t, int64(13), total)
		require.Len(t, cards, 1)
		assert.Equal(t, "9.99", cards[0].Price)
		require.NotNil(t, cards[0].CompareAtPrice)
		assert.Equal(t, "12.00", *cards[0].CompareAtPrice)
		assert.Equal(t, "/b.png", cards[0].ImageURL)
		assert.True(t, cards[0].InStock)
	})

	t.Run("bad category id", func(t *testing.T) {
		f := newFixture()

		_, _, err := f.svc.Catalog(ctx, CatalogFilter{CategoryID: "x"})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.products.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}

func TestService_Product(t *testing.T) {
	ctx := context.Background()

	t.Run("published product with categories", func(t *testing.T) {
		f := newFixture()
		p := publishedProduct("Blue Mug", "12.00", 0)
		primary := catalog.Category{BaseEntity: shared.NewBaseEntity(), Name: "Kitchen", Slug: "kitchen"}
		other := catalog.Category{BaseEntity: shared.NewBaseEntity(), Name: "Gifts", Slug: "gifts"}
		p.CategoryID = &primary.ID
		p.Category = &primary
		p.Categories = []catalog.Category{primary, other}

		f.products.On("FindBySlug", ctx, "blue-mug").Return(&p, nil)

		detail, err := f.svc.Product(ctx, "blue-mug")

		require.NoError(t, err)
		assert.Equal(t, "12.00", detail.Price)
		assert.Nil(t, detail.CompareAtPrice)
		assert.False(t, detail.InStock)
		require.Len(t, detail.Categories, 2)
		assert.Equal(t, "kitchen", detail.Categories[0].Slug)
		assert.Equal(t, "gifts", detail.Categories[1].Slug)
	})

	t.Run("unpublished product is hidden", func(t *testing.T) {
		f := newFixture()
		p := publishedProduct("Draft", "1.00", 1)
		p.IsPublished = false

		f.products.On("FindBySlug", ctx, "draft").Return(&p, nil)

		_, err := f.svc.Product(ctx, "draft")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown slug", func(t *testing.T) {
		f := newFixture()
		f.products.On("FindBySlug", ctx, "nope").Return(nil, shared.NewNotFoundError("Product"))

		_, err := f.svc.Product(ctx, "nope")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Content(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := publishedProduct("Alpha", "5.00", 1)
	b := publishedProduct("Beta", "6.00", 1)
	hidden := publishedProduct("Hidden", "7.00", 1)
	hidden.IsActive = false
	missing := uuid.New()

	content := settings.DefaultShopContent()
	require.NoError(t, content.SetFeaturedIDs([]uuid.UUID{b.ID, missing, hidden.ID, a.ID}))
	content.PromoTitle = "Sale"

	f.settings.On("GetShopContent", ctx).Return(content, nil)
	f.products.On("FindByIDs", ctx, []uuid.UUID{b.ID, missing, hidden.ID, a.ID}).
		Return([]catalog.Product{a, hidden, b}, nil)

	resp, err := f.svc.Content(ctx)

	require.NoError(t, err)
	require.Len(t, resp.FeaturedProducts, 2)
	assert.Equal(t, "Beta", resp.FeaturedProducts[0].Name)
	assert.Equal(t, "Alpha", resp.FeaturedProducts[1].Name)
	assert.Empty(t, resp.PromoTitle, "inactive promo is not exposed")
	assert.Equal(t, "Welcome to our shop", resp.HeroTitle)
}

func TestService_Quote(t *testing.T) {
	ctx := context.Background()

	t.Run("prices cart at web prices", func(t *testing.T) {
		f := newFixture()
		a := publishedProduct("Alpha", "115.00", 1)
		web := decimal.RequireFromString("103.50")
		a.WebPrice = &web
		b := publishedProduct("Beta", "23.00", 10)

		f.products.On("FindByIDs", ctx, []uuid.UUID{a.ID, b.ID}).Return([]catalog.Product{a, b}, nil)

		resp, err := f.svc.Quote(ctx, QuoteRequest{Items: []CartItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		}})

		require.NoError(t, err)
		assert.Equal(t, "230.00", resp.Total)
		assert.Equal(t, "30.00", resp.Tax)
		assert.Equal(t, "200.00", resp.Subtotal)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "103.50", resp.Items[0].UnitPrice)
		assert.False(t, resp.Items[0].InStock)
		assert.True(t, resp.Items[1].InStock)
	})

	t.Run("unpublished product", func(t *testing.T) {
		f := newFixture()
		p := publishedProduct("Draft", "1.00", 1)
		p.IsPublished = false

		f.products.On("FindByIDs", ctx, []uuid.UUID{p.ID}).Return([]catalog.Product{p}, nil)

		_, err := f.svc.Quote(ctx, QuoteRequest{Items: []CartItem{{ProductID: p.ID, Quantity: 1}}})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("places online order", func(t *testing.T) {
		f := newFixture()
		productID := uuid.New()
		saleID := uuid.New()

		f.orders.On("CreateOnlineSale", ctx, "key-1", mock.MatchedBy(func(o appsales.OnlineOrder) bool {
			return o.PaymentMethod == appsales.OnlinePaymentCashOnDelivery &&
				o.Customer.Name == "Jo Doe" && o.Customer.Email == "jo@example.com" &&
				len(o.Items) == 1 && o.Items[0].ProductID == productID && o.Items[0].UnitPrice == nil
		})).Return(&appsales.SaleResponse{ID: saleID, ReceiptNumber: "R-1"}, nil)

		sale, err := f.svc.Checkout(ctx, "key-1", CheckoutRequest{
			Items:         []CartItem{{ProductID: productID, Quantity: 2}},
			CustomerName:  " Jo Doe ",
			CustomerEmail: "Jo@Example.com",
			PaymentMethod: "cash_on_delivery",
		})

		require.NoError(t, err)
		assert.Equal(t, saleID, sale.ID)
		f.orders.AssertExpectations(t)
	})

	t.Run("missing customer", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Checkout(ctx, "", CheckoutRequest{
			Items:         []CartItem{{ProductID: uuid.New(), Quantity: 1}},
			CustomerName:  "  ",
			CustomerEmail: "jo@example.com",
			PaymentMethod: "card",
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.orders.AssertNotCalled(t, "CreateOnlineSale", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates stock errors", func(t *testing.T) {
		f := newFixture()
		f.orders.On("CreateOnlineSale", ctx, "", mock.Anything).Return(nil, shared.ErrInsufficientStock)

		_, err := f.svc.Checkout(ctx, "", CheckoutRequest{
			Items:         []CartItem{{ProductID: uuid.New(), Quantity: 1}},
			CustomerName:  "Jo",
			CustomerEmail: "jo@example.com",
			PaymentMethod: "card",
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}
