package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// MaxPageSize caps list endpoints
const MaxPageSize = 100

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.SKU, req.Price)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}

	product.Barcode = strings.TrimSpace(req.Barcode)
	if req.CostPrice != nil {
		if err := product.SetCostPrice(*req.CostPrice); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := product.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := product.SetWebPrice(req.WebPrice); err != nil {
		return nil, err
	}
	product.IsPublished = req.IsPublished
	product.Featured = req.Featured
	product.SortOrder = req.SortOrder
	product.Description = strings.TrimSpace(req.Description)
	product.SetSEO(req.SEOTitle, req.SEODescription, req.SEOKeywords)

	if req.Slug != "" {
		if err := product.SetSlug(req.Slug); err != nil {
			return nil, err
		}
	}
	if err := s.ensureUniqueSlug(ctx, product, req.Slug != ""); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product with its images and categories
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "name"
		if domainFilter.OrderDir == "" {
			domainFilter.OrderDir = "asc"
		}
	}
	domainFilter.Normalize(MaxPageSize)

	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, 0, shared.NewInvalidInputError("category_id must be a UUID")
		}
		domainFilter.Filters[catalog.FilterCategoryID] = categoryID
	}
	if filter.IsActive != nil {
		domainFilter.Filters[catalog.FilterActive] = *filter.IsActive
	}
	if filter.Published != nil {
		domainFilter.Filters[catalog.FilterPublished] = *filter.Published
	}

	products, total, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates a product. Nil request fields keep their current value.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SKU != nil {
		if err := product.SetSKU(*req.SKU); err != nil {
			return nil, err
		}
		exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU, &product.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
		}
	}
	if req.Barcode != nil {
		product.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil {
		if err := product.SetCostPrice(*req.CostPrice); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := product.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearCategory:
		product.CategoryID = nil
	case req.CategoryID != nil:
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}
	product.Category = nil

	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	switch {
	case req.ClearWebPrice:
		_ = product.SetWebPrice(nil)
	case req.WebPrice != nil:
		if err := product.SetWebPrice(req.WebPrice); err != nil {
			return nil, err
		}
	}
	if req.IsPublished != nil {
		product.IsPublished = *req.IsPublished
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.SEOTitle != nil || req.SEODescription != nil || req.SEOKeywords != nil {
		product.SetSEO(
			valueOr(req.SEOTitle, product.SEOTitle),
			valueOr(req.SEODescription, product.SEODescription),
			valueOr(req.SEOKeywords, product.SEOKeywords),
		)
	}
	if req.Slug != nil {
		if err := product.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureUniqueSlug(ctx, product, *req.Slug != ""); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// SetCategories replaces the secondary storefront categories of a product
func (s *ProductService) SetCategories(ctx context.Context, id uuid.UUID, req SetCategoriesRequest) (*ProductResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.CategoryIDs)
	if len(ids) > 0 {
		count, err := s.categoryRepo.CountByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if count != int64(len(ids)) {
			return nil, shared.NewInvalidInputError("One or more categories do not exist")
		}
	}

	if err := s.productRepo.ReplaceCategories(ctx, id, ids); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AddImage attaches an image to a product
func (s *ProductService) AddImage(ctx context.Context, id uuid.UUID, req AddImageRequest) (*ImageResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	image, err := catalog.NewProductImage(id, req.URL, req.AltText, req.SortOrder, req.IsPrimary)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.AddImage(ctx, image); err != nil {
		return nil, err
	}

	response := ToImageResponses([]catalog.ProductImage{*image})[0]
	return &response, nil
}

// DeleteImage removes an image from a product
func (s *ProductService) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return s.productRepo.DeleteImage(ctx, productID, imageID)
}

func (s *ProductService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInvalidInputError("Category not found")
		}
		return err
	}
	return nil
}

// ensureUniqueSlug rejects an explicit slug that is taken. A slug derived
// from the name gets a short SKU suffix instead.
func (s *ProductService) ensureUniqueSlug(ctx context.Context, product *catalog.Product, explicit bool) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug, &product.ID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if explicit {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}

	if err := product.SetSlug(product.Slug + "-" + product.SKU); err != nil {
		return err
	}
	exists, err = s.productRepo.ExistsBySlug(ctx, product.Slug, &product.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
