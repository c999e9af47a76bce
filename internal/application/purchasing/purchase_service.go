package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/transaction"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseService records stock deliveries
type PurchaseService struct {
	scope        transaction.Scope
	purchaseRepo purchasing.PurchaseRepository
	vendorRepo   purchasing.VendorRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(scope transaction.Scope, purchaseRepo purchasing.PurchaseRepository, vendorRepo purchasing.VendorRepository, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		scope:        scope,
		purchaseRepo: purchaseRepo,
		vendorRepo:   vendorRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Create records a delivery, adds the units to stock and updates each
// product's cost price to the latest unit cost.
func (s *PurchaseService) Create(ctx context.Context, userID *uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, req.VendorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidInputError("Vendor not found")
		}
		return nil, err
	}

	lines := make([]purchasing.PurchaseLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = purchasing.PurchaseLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost}
	}
	var purchasedAt time.Time
	if req.PurchasedAt != nil {
		purchasedAt = *req.PurchasedAt
	}

	purchase, err := purchasing.NewPurchase(vendor.ID, req.Reference, req.Notes, purchasedAt, lines, s.now())
	if err != nil {
		return nil, err
	}
	purchase.UserID = userID

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := checkProducts(ctx, repos.Products(), purchase.Items); err != nil {
			return err
		}
		if err := repos.Purchases().Create(ctx, purchase); err != nil {
			return err
		}
		for _, it := range purchase.Items {
			if err := repos.Products().ReceiveStock(ctx, it.ProductID, it.Quantity, it.UnitCost); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewInvalidInputError(fmt.Sprintf("Product %s does not exist", it.ProductID))
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase recorded",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("vendor", vendor.Name),
		zap.String("total", purchase.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(purchase.Items)))

	purchase.Vendor = vendor
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// checkProducts rejects lines whose product does not exist before anything
// is written
func checkProducts(ctx context.Context, repo catalog.ProductRepository, items []purchasing.PurchaseItem) error {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range found {
		delete(seen, p.ID)
	}
	for _, id := range ids {
		if _, missing := seen[id]; missing {
			return shared.NewInvalidInputError(fmt.Sprintf("Product %s does not exist", id))
		}
	}
	return nil
}

// GetByID retrieves a purchase with its items
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves purchases, latest delivery first
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "purchased_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize(maxPageSize)

	if filter.VendorID != "" {
		vendorID, err := uuid.Parse(filter.VendorID)
		if err != nil {
			return nil, 0, shared.NewInvalidInputError("vendor_id must be a UUID")
		}
		domainFilter.Filters[purchasing.FilterVendorID] = vendorID
	}

	list, total, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PurchaseResponse, len(list))
	for i := range list {
		out[i] = ToPurchaseResponse(&list[i])
	}
	return out, total, nil
}
