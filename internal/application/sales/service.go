package sales

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/transaction"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultRecentLimit is used when the recent sales limit is omitted
	DefaultRecentLimit = 10
	// MaxRecentLimit caps the recent sales list
	MaxRecentLimit = 50

	maxPageSize       = 100
	idempotencyPrefix = "sale:"
)

var (
	// ErrIdempotencyInFlight is returned while the first request with a key is still running
	ErrIdempotencyInFlight = shared.NewDomainError("CONFLICT", "A request with this Idempotency-Key is still being processed")
	// ErrIdempotencyKeyReused is returned when a key comes back with a different request body
	ErrIdempotencyKeyReused = shared.NewDomainError("CONFLICT", "Idempotency-Key was already used for a different request")
)

// SaleService runs POS and online checkouts
type SaleService struct {
	scope          transaction.Scope
	saleRepo       sales.SaleRepository
	idempotency    cache.IdempotencyStore
	idempotencyTTL time.Duration
	metrics        *telemetry.SalesMetrics
	location       *time.Location
	logger         *zap.Logger
	now            func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(scope transaction.Scope, saleRepo sales.SaleRepository, location *time.Location, logger *zap.Logger) *SaleService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		scope:    scope,
		saleRepo: saleRepo,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// SetIdempotencyStore enables Idempotency-Key handling for sale creation
func (s *SaleService) SetIdempotencyStore(store cache.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	s.idempotencyTTL = ttl
}

// SetSalesMetrics sets the sales metrics collector
func (s *SaleService) SetSalesMetrics(m *telemetry.SalesMetrics) {
	s.metrics = m
}

// saleDraft is a checkout before products are resolved
type saleDraft struct {
	channel  sales.Channel
	items    []SaleItemRequest
	discount decimal.Decimal
	tender   func(total decimal.Decimal) sales.Tender
	customer *sales.Customer
	userID   *uuid.UUID
	notes    string
}

// CreateSale records a POS sale for the signed-in cashier
func (s *SaleService) CreateSale(ctx context.Context, userID *uuid.UUID, idempotencyKey string, req CreateSaleRequest) (*SaleResponse, error) {
	cash, card := req.CashAmount, req.CardAmount
	draft := saleDraft{
		channel:  sales.ChannelPOS,
		items:    req.Items,
		discount: req.Discount,
		tender:   func(decimal.Decimal) sales.Tender { return sales.Tender{Cash: cash, Card: card} },
		userID:   userID,
		notes:    req.Notes,
	}
	owner := "anonymous"
	if userID != nil {
		owner = userID.String()
	}
	return s.createIdempotent(ctx, idempotencyKey, "pos:"+owner+":", req, draft)
}

// CreateOnlineSale records a storefront order. The order is paid in full by
// card, or the full total is collected in cash on delivery.
func (s *SaleService) CreateOnlineSale(ctx context.Context, idempotencyKey string, order OnlineOrder) (*SaleResponse, error) {
	var tender func(total decimal.Decimal) sales.Tender
	switch order.PaymentMethod {
	case OnlinePaymentCard:
		tender = func(total decimal.Decimal) sales.Tender { return sales.Tender{Card: total} }
	case OnlinePaymentCashOnDelivery:
		tender = func(total decimal.Decimal) sales.Tender { return sales.Tender{Cash: total} }
	default:
		return nil, shared.NewInvalidInputError("payment_method must be card or cash_on_delivery")
	}

	items := make([]SaleItemRequest, len(order.Items))
	for i, it := range order.Items {
		items[i] = SaleItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	customer := order.Customer

	return s.createIdempotent(ctx, idempotencyKey, "online:", order, saleDraft{
		channel:  sales.ChannelOnline,
		items:    items,
		discount: decimal.Zero,
		tender:   tender,
		customer: &customer,
		notes:    order.Notes,
	})
}

// createIdempotent replays the stored sale when the key was already used.
// Keys live under scope, so a cashier's key never matches another cashier's
// or a storefront order. The stored record is "<sale id>|<request hash>".
func (s *SaleService) createIdempotent(ctx context.Context, key, scope string, body any, draft saleDraft) (*SaleResponse, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return s.create(ctx, draft)
	}

	hash, err := requestHash(body)
	if err != nil {
		return nil, err
	}

	storeKey := idempotencyPrefix + scope + key
	existing, reserved, err := s.idempotency.Reserve(ctx, storeKey, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("Idempotency store unavailable, processing without it", zap.Error(err))
		return s.create(ctx, draft)
	}
	if !reserved {
		if existing == cache.PendingValue {
			return nil, ErrIdempotencyInFlight
		}
		id, storedHash, _ := strings.Cut(existing, "|")
		saleID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt idempotency record for key %q: %w", key, err)
		}
		if storedHash != hash {
			return nil, ErrIdempotencyKeyReused
		}
		s.logger.Info("Replaying sale for repeated idempotency key", zap.String("sale_id", id))
		return s.GetByID(ctx, saleID)
	}

	resp, err := s.create(ctx, draft)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, storeKey); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
		}
		return nil, err
	}
	if err := s.idempotency.Complete(ctx, storeKey, resp.ID.String()+"|"+hash, s.idempotencyTTL); err != nil {
		s.logger.Warn("Failed to store idempotency result", zap.Error(err), zap.String("sale_id", resp.ID.String()))
	}
	return resp, nil
}

func requestHash(body any) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to hash sale request: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// create inserts the sale and takes stock in one transaction
func (s *SaleService) create(ctx context.Context, draft saleDraft) (*SaleResponse, error) {
	if len(draft.items) == 0 {
		return nil, shared.NewInvalidInputError("Sale must contain at least one item")
	}

	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		products, err := loadProducts(ctx, repos.Products(), draft.items)
		if err != nil {
			return err
		}

		lines, err := buildLines(draft, products)
		if err != nil {
			return err
		}

		_, totals, err := sales.Quote(lines, draft.discount)
		if err != nil {
			return err
		}
		sale, err = sales.NewSale(draft.channel, lines, draft.discount, draft.tender(totals.Total), s.now())
		if err != nil {
			return err
		}
		sale.UserID = draft.userID
		sale.Notes = strings.TrimSpace(draft.notes)
		if draft.customer != nil {
			sale.SetCustomer(*draft.customer)
		}

		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		return takeStock(ctx, repos.Products(), sale.Items, products)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSale(ctx, string(sale.Channel), string(sale.PaymentMethod), sale.TotalAmount, sale.ItemCount())
	s.logger.Info("Sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("receipt_number", sale.ReceiptNumber),
		zap.String("channel", string(sale.Channel)),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)

	response := ToSaleResponse(sale)
	return &response, nil
}

func loadProducts(ctx context.Context, repo catalog.ProductRepository, items []SaleItemRequest) (map[uuid.UUID]catalog.Product, error) {
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
		return nil, err
	}
	products := make(map[uuid.UUID]catalog.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	return products, nil
}

// buildLines resolves prices for each requested item. The till may override
// the unit price; online orders always use the effective web price.
func buildLines(draft saleDraft, products map[uuid.UUID]catalog.Product) ([]sales.LineInput, error) {
	lines := make([]sales.LineInput, 0, len(draft.items))
	for _, it := range draft.items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("Product %s does not exist", it.ProductID))
		}

		var price decimal.Decimal
		switch draft.channel {
		case sales.ChannelOnline:
			if !p.IsVisibleOnline() {
				return nil, shared.NewInvalidInputError(fmt.Sprintf("%s is not available online", p.Name))
			}
			price = p.EffectivePrice()
		default:
			if !p.IsActive {
				return nil, shared.NewInvalidInputError(fmt.Sprintf("%s is not active", p.Name))
			}
			price = p.Price
			if it.UnitPrice != nil {
				price = *it.UnitPrice
			}
		}

		lines = append(lines, sales.LineInput{
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			TaxRate:     p.TaxRate,
		})
	}
	return lines, nil
}

// takeStock decrements stock per product in a fixed order to avoid lock cycles
func takeStock(ctx context.Context, repo catalog.ProductRepository, items []sales.SaleItem, products map[uuid.UUID]catalog.Product) error {
	qty := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		qty[it.ProductID] += it.Quantity
	}
	ids := make([]uuid.UUID, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := repo.DecrementStock(ctx, id, qty[id]); err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				p := products[id]
				return shared.NewDomainError(shared.ErrInsufficientStock.Code,
					fmt.Sprintf("Insufficient stock for %s: %d on hand, %d requested", p.Name, p.Stock, qty[id]))
			}
			return err
		}
	}
	return nil
}

// GetByID retrieves a sale with its items
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales newest first
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize(maxPageSize)

	if filter.Channel != "" {
		domainFilter.Filters[sales.FilterChannel] = filter.Channel
	}
	if filter.Status != "" {
		domainFilter.Filters[sales.FilterStatus] = filter.Status
	}
	if filter.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, filter.From, s.location)
		if err != nil {
			return nil, 0, shared.NewInvalidInputError("from must be a date in YYYY-MM-DD format")
		}
		domainFilter.Filters[sales.FilterFrom] = from
	}
	if filter.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, filter.To, s.location)
		if err != nil {
			return nil, 0, shared.NewInvalidInputError("to must be a date in YYYY-MM-DD format")
		}
		domainFilter.Filters[sales.FilterTo] = to.AddDate(0, 0, 1)
	}

	list, total, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleResponses(list), total, nil
}

// Recent returns the latest sales. limit defaults to 10 and is capped at 50.
func (s *SaleService) Recent(ctx context.Context, limit int) ([]SaleResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	list, err := s.saleRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToSaleResponses(list), nil
}
