package purchasing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
)

const maxPageSize = 100

// VendorService handles vendor-related business operations
type VendorService struct {
	vendorRepo purchasing.VendorRepository
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo purchasing.VendorRepository) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
	}
}

func (r VendorRequest) details() purchasing.VendorDetails {
	return purchasing.VendorDetails{
		Name:        r.Name,
		ContactName: r.ContactName,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		Notes:       r.Notes,
	}
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, req VendorRequest) (*VendorResponse, error) {
	vendor, err := purchasing.NewVendor(req.details())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if err := s.ensureUniqueName(ctx, vendor.Name, nil); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	response := ToVendorResponse(vendor)
	return &response, nil
}

// GetByID retrieves a vendor by ID
func (s *VendorService) GetByID(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToVendorResponse(vendor)
	return &response, nil
}

// List retrieves vendors with filtering and pagination
func (s *VendorService) List(ctx context.Context, filter VendorListFilter) ([]VendorResponse, int64, error) {
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
	domainFilter.Normalize(maxPageSize)
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	vendors, total, err := s.vendorRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]VendorResponse, len(vendors))
	for i := range vendors {
		out[i] = ToVendorResponse(&vendors[i])
	}
	return out, total, nil
}

// Update replaces a vendor's details
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req VendorRequest) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vendor.Update(req.details()); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}
	if err := s.ensureUniqueName(ctx, vendor.Name, &id); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	response := ToVendorResponse(vendor)
	return &response, nil
}

// Delete removes a vendor that has no purchases
func (s *VendorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vendorRepo.FindByID(ctx, id); err != nil {
		return err
	}
	hasPurchases, err := s.vendorRepo.HasPurchases(ctx, id)
	if err != nil {
		return err
	}
	if hasPurchases {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Vendor has purchases and cannot be deleted; deactivate it instead")
	}
	return s.vendorRepo.Delete(ctx, id)
}

func (s *VendorService) ensureUniqueName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.vendorRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Vendor with this name already exists")
	}
	return nil
}
