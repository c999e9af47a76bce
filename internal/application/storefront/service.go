// Package storefront serves the public shop: catalog browsing, cart
// pricing and online checkout.
package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	appsales "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxCatalogPageSize = 60

// ErrProductNotFound hides unpublished products behind a plain 404
var ErrProductNotFound = shared.NewNotFoundError("Product")

// OrderPlacer creates online sales
type OrderPlacer interface {
	CreateOnlineSale(ctx context.Context, idempotencyKey string, order appsales.OnlineOrder) (*appsales.SaleResponse, error)
}

// Service is the storefront read model plus checkout
type Service struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	settingsRepo settings.Repository
	orders       OrderPlacer
	logger       *zap.Logger
}

// NewService creates a new storefront Service
func NewService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	settingsRepo settings.Repository,
	orders OrderPlacer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		orders:       orders,
		logger:       logger,
	}
}

// Catalog lists published, active products. The repository applies the
// storefront ordering: featured first, then sort order, then name.
func (s *Service) Catalog(ctx context.Context, filter CatalogFilter) ([]ProductCard, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   strings.TrimSpace(filter.Search),
		Filters: map[string]interface{}{
			catalog.FilterPublished: true,
			catalog.FilterActive:    true,
		},
	}
	domainFilter.Normalize(maxCatalogPageSize)

	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, 0, shared.NewInvalidInputError("category_id must be a UUID")
		}
		domainFilter.Filters[catalog.FilterAnyCategory] = categoryID
	}

	products, total, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	cards := make([]ProductCard, len(products))
	for i := range products {
		cards[i] = ToProductCard(&products[i])
	}
	return cards, total, nil
}

// Product returns a published product by slug
func (s *Service) Product(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.productRepo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsVisibleOnline() {
		return nil, ErrProductNotFound
	}
	detail := ToProductDetail(product)
	return &detail, nil
}

// Categories lists all categories in display order
func (s *Service) Categories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = toCategoryResponse(&categories[i])
	}
	return out, nil
}

// Content returns the home page copy with featured products in their
// configured order. Unknown and unpublished products are skipped.
func (s *Service) Content(ctx context.Context) (*ContentResponse, error) {
	content, err := s.settingsRepo.GetShopContent(ctx)
	if err != nil {
		return nil, err
	}

	ids := content.FeaturedIDs()
	featured := make([]ProductCard, 0, len(ids))
	if len(ids) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for _, id := range ids {
			p, ok := byID[id]
			if !ok || !p.IsVisibleOnline() {
				continue
			}
			featured = append(featured, ToProductCard(p))
		}
	}

	resp := toContentResponse(content, featured)
	return &resp, nil
}

// Quote prices a cart at web prices without reserving stock
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]struct{}, len(req.Items))
	for _, it := range req.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]sales.LineInput, 0, len(req.Items))
	stock := make(map[uuid.UUID]int, len(products))
	for _, it := range req.Items {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsVisibleOnline() {
			return nil, shared.NewInvalidInputError("Product " + it.ProductID.String() + " is not available")
		}
		stock[p.ID] = p.Stock
		lines = append(lines, sales.LineInput{
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   p.EffectivePrice(),
			TaxRate:     p.TaxRate,
		})
	}

	items, totals, err := sales.Quote(lines, decimal.Zero)
	if err != nil {
		return nil, err
	}
	resp := toQuoteResponse(items, totals, stock)
	return &resp, nil
}

// Checkout places an online order through the sales flow
func (s *Service) Checkout(ctx context.Context, idempotencyKey string, req CheckoutRequest) (*appsales.SaleResponse, error) {
	name := strings.TrimSpace(req.CustomerName)
	email := strings.TrimSpace(req.CustomerEmail)
	if name == "" || email == "" {
		return nil, shared.NewInvalidInputError("Customer name and email are required")
	}

	items := make([]appsales.SaleItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = appsales.SaleItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	sale, err := s.orders.CreateOnlineSale(ctx, idempotencyKey, appsales.OnlineOrder{
		Items: items,
		Customer: sales.Customer{
			Name:    name,
			Email:   strings.ToLower(email),
			Phone:   strings.TrimSpace(req.CustomerPhone),
			Address: strings.TrimSpace(req.Address),
		},
		PaymentMethod: appsales.OnlinePayment(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Online order placed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("receipt_number", sale.ReceiptNumber),
		zap.String("payment_method", req.PaymentMethod))
	return sale, nil
}
