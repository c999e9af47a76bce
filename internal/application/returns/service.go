package returns

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/transaction"
	"github.com/retailpos/backend/internal/domain/returns"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxPageSize = 100

// ReturnService processes customer returns against completed sales
type ReturnService struct {
	scope        transaction.Scope
	returnRepo   returns.ReturnRepository
	settingsRepo settings.Repository
	metrics      *telemetry.SalesMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope transaction.Scope, returnRepo returns.ReturnRepository, settingsRepo settings.Repository, logger *zap.Logger) *ReturnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnService{
		scope:        scope,
		returnRepo:   returnRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SetSalesMetrics sets the sales metrics collector
func (s *ReturnService) SetSalesMetrics(m *telemetry.SalesMetrics) {
	s.metrics = m
}

// CreateReturn refunds the requested lines, restores stock and writes a receipt.
// Everything happens in one transaction; the sale row is locked while it runs.
func (s *ReturnService) CreateReturn(ctx context.Context, userID *uuid.UUID, cashier string, req CreateReturnRequest) (*ReceiptResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewInvalidInputError("A return must contain at least one item")
	}
	method := returns.RefundMethod(req.RefundMethod)
	cardRequested := decimal.Zero
	if req.RefundCard != nil {
		cardRequested = *req.RefundCard
	}

	header, currency, err := s.businessHeader(ctx)
	if err != nil {
		return nil, err
	}

	var receipt *returns.Receipt
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		sale, err := repos.Sales().FindByIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}

		lines := make([]returns.Return, 0, len(req.Items))
		slip := make([]returns.ReceiptLine, 0, len(req.Items))
		restock := make(map[uuid.UUID]int)
		total := decimal.Zero

		for _, it := range req.Items {
			refund, err := sale.ReturnItem(it.SaleItemID, it.Quantity)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewInvalidInputError("Sale item " + it.SaleItemID.String() + " does not belong to this sale")
				}
				return err
			}
			item, _ := sale.FindItem(it.SaleItemID)

			lines = append(lines, returns.NewReturnLine(item.ID, item.ProductID, item.ProductName, it.Quantity, refund, it.Reason, userID))
			slip = append(slip, returns.ReceiptLine{
				ProductName:  item.ProductName,
				SKU:          item.SKU,
				Quantity:     it.Quantity,
				RefundAmount: refund.StringFixed(2),
				Reason:       strings.TrimSpace(it.Reason),
			})
			restock[item.ProductID] += it.Quantity
			total = total.Add(refund)
		}

		cash, card, err := returns.SplitRefund(total, method, cardRequested)
		if err != nil {
			return err
		}
		if err := sale.RecordCardRefund(card); err != nil {
			return err
		}

		if err := repos.Sales().UpdateReturnState(ctx, sale); err != nil {
			return err
		}
		if err := restoreStock(ctx, repos, restock); err != nil {
			return err
		}

		receipt, err = returns.NewReceipt(sale.ID, lines, cash, card, returns.ReceiptPayload{
			Business:      header,
			SaleReceiptNo: sale.ReceiptNumber,
			Lines:         slip,
			Currency:      currency,
			Cashier:       cashier,
		}, s.now())
		if err != nil {
			return err
		}
		return repos.Returns().CreateReceipt(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	refundMethod := string(method)
	if refundMethod == "" {
		refundMethod = string(returns.RefundCash)
	}
	s.metrics.RecordRefund(ctx, refundMethod, receipt.RefundTotal)
	s.logger.Info("Return processed",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("sale_id", receipt.SaleID.String()),
		zap.String("refund_total", receipt.RefundTotal.StringFixed(2)),
		zap.Int("lines", len(receipt.Lines)),
	)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// businessHeader snapshots the shop identity for the slip
func (s *ReturnService) businessHeader(ctx context.Context) (returns.BusinessHeader, string, error) {
	cfg, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return returns.BusinessHeader{}, "", err
	}
	return returns.BusinessHeader{
		Name:      cfg.BusinessName,
		Address:   cfg.Address,
		Phone:     cfg.Phone,
		TaxNumber: cfg.TaxNumber,
		LogoURL:   cfg.LogoURL,
		Footer:    cfg.ReceiptFooter,
	}, cfg.Currency, nil
}

func restoreStock(ctx context.Context, repos transaction.Repositories, restock map[uuid.UUID]int) error {
	ids := make([]uuid.UUID, 0, len(restock))
	for id := range restock {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := repos.Products().IncrementStock(ctx, id, restock[id]); err != nil {
			return err
		}
	}
	return nil
}

// GetReceipt retrieves a return receipt for reprint
func (s *ReturnService) GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.returnRepo.FindReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "return receipt not found")
		}
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves returned lines newest first
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize(maxPageSize)

	if filter.SaleID != "" {
		saleID, err := uuid.Parse(filter.SaleID)
		if err != nil {
			return nil, 0, shared.NewInvalidInputError("sale_id must be a UUID")
		}
		domainFilter.Filters[returns.FilterSaleID] = saleID
	}

	list, total, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReturnResponses(list), total, nil
}

// ForSale lists every returned line of one sale
func (s *ReturnService) ForSale(ctx context.Context, saleID uuid.UUID) ([]ReturnResponse, error) {
	list, err := s.returnRepo.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return ToReturnResponses(list), nil
}
