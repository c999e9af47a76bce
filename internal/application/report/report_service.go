package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/report"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

const (
	// TopProductsLimit is how many best sellers the report lists
	TopProductsLimit = 5
	// SalesListLimit caps the sale list returned with a report
	SalesListLimit = 500
)

// ReportService builds the sales dashboard for a reporting period
type ReportService struct {
	reportRepo report.SalesReportRepository
	saleRepo   sales.SaleRepository
	location   *time.Location
	now        func() time.Time
}

// NewReportService creates a new ReportService. Periods are resolved in location.
func NewReportService(reportRepo report.SalesReportRepository, saleRepo sales.SaleRepository, location *time.Location) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{
		reportRepo: reportRepo,
		saleRepo:   saleRepo,
		location:   location,
		now:        time.Now,
	}
}

// ===================== Request / Response =====================

// SalesReportFilter selects the reporting period
type SalesReportFilter struct {
	Filter    string `form:"filter" binding:"omitempty,oneof=today yesterday last_7_days last_30_days custom"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// PeriodResponse is the resolved window, End exclusive
type PeriodResponse struct {
	Filter string    `json:"filter"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// StatsResponse is the summary block of the report
type StatsResponse struct {
	SalesCount   int64  `json:"sales_count"`
	GrossSales   string `json:"gross_sales"`
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	Discount     string `json:"discount"`
	CashTotal    string `json:"cash_total"`
	CardTotal    string `json:"card_total"`
	ItemsSold    int64  `json:"items_sold"`
	AverageSale  string `json:"average_sale"`
	RefundsCount int64  `json:"refunds_count"`
	RefundsTotal string `json:"refunds_total"`
	RefundsCash  string `json:"refunds_cash"`
	RefundsCard  string `json:"refunds_card"`
	NetSales     string `json:"net_sales"`
}

// TopProductResponse is one best seller
type TopProductResponse struct {
	Rank        int       `json:"rank"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	Quantity    int64     `json:"quantity"`
	Revenue     string    `json:"revenue"`
}

// SaleRowResponse is a sale in the report list
type SaleRowResponse struct {
	ID             uuid.UUID `json:"id"`
	ReceiptNumber  string    `json:"receipt_number"`
	Channel        string    `json:"channel"`
	CustomerName   string    `json:"customer_name,omitempty"`
	TotalAmount    string    `json:"total_amount"`
	PaymentMethod  string    `json:"payment_method"`
	RefundedAmount string    `json:"refunded_amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// SalesReportResponse is the full report for a period
type SalesReportResponse struct {
	Period      PeriodResponse       `json:"period"`
	Stats       StatsResponse        `json:"stats"`
	TopProducts []TopProductResponse `json:"top_products"`
	Sales       []SaleRowResponse    `json:"sales"`
}

// ===================== Operations =====================

// GetSalesReport aggregates sales and refunds for the selected period
func (s *ReportService) GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReportResponse, error) {
	period, err := report.ResolvePeriod(filter.Filter, filter.StartDate, filter.EndDate, s.now(), s.location)
	if err != nil {
		return nil, err
	}

	totals, err := s.reportRepo.SalesTotals(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	refunds, err := s.reportRepo.RefundTotals(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	top, err := s.reportRepo.TopProducts(ctx, period.Start, period.End, TopProductsLimit)
	if err != nil {
		return nil, err
	}
	list, err := s.saleRepo.FindBetween(ctx, period.Start, period.End, SalesListLimit)
	if err != nil {
		return nil, err
	}

	return &SalesReportResponse{
		Period: PeriodResponse{
			Filter: string(period.Filter),
			Start:  period.Start,
			End:    period.End,
		},
		Stats:       toStatsResponse(report.NewSalesStats(totals, refunds)),
		TopProducts: toTopProductResponses(top),
		Sales:       toSaleRows(list),
	}, nil
}

func toStatsResponse(st report.SalesStats) StatsResponse {
	return StatsResponse{
		SalesCount:   st.SalesCount,
		GrossSales:   shared.FormatMoney(st.GrossSales),
		Subtotal:     shared.FormatMoney(st.Subtotal),
		Tax:          shared.FormatMoney(st.Tax),
		Discount:     shared.FormatMoney(st.Discount),
		CashTotal:    shared.FormatMoney(st.CashCollected),
		CardTotal:    shared.FormatMoney(st.CardCollected),
		ItemsSold:    st.ItemsSold,
		AverageSale:  shared.FormatMoney(st.AverageSale),
		RefundsCount: st.RefundsCount,
		RefundsTotal: shared.FormatMoney(st.RefundsTotal),
		RefundsCash:  shared.FormatMoney(st.RefundsCash),
		RefundsCard:  shared.FormatMoney(st.RefundsCard),
		NetSales:     shared.FormatMoney(st.NetSales),
	}
}

func toTopProductResponses(top []report.TopProduct) []TopProductResponse {
	out := make([]TopProductResponse, len(top))
	for i, p := range top {
		out[i] = TopProductResponse{
			Rank:        i + 1,
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			SKU:         p.SKU,
			Quantity:    p.Quantity,
			Revenue:     shared.FormatMoney(p.Revenue),
		}
	}
	return out
}

func toSaleRows(list []sales.Sale) []SaleRowResponse {
	out := make([]SaleRowResponse, len(list))
	for i, s := range list {
		out[i] = SaleRowResponse{
			ID:             s.ID,
			ReceiptNumber:  s.ReceiptNumber,
			Channel:        string(s.Channel),
			CustomerName:   s.CustomerName,
			TotalAmount:    shared.FormatMoney(s.TotalAmount),
			PaymentMethod:  string(s.PaymentMethod),
			RefundedAmount: shared.FormatMoney(s.RefundedAmount),
			Status:         string(s.Status),
			CreatedAt:      s.CreatedAt,
		}
	}
	return out
}
