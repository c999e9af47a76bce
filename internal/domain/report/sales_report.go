package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals are the raw sums over completed sales in a period
type SalesTotals struct {
	SalesCount    int64           `db:"sales_count"`
	GrossSales    decimal.Decimal `db:"gross_sales"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	Discount      decimal.Decimal `db:"discount"`
	CashCollected decimal.Decimal `db:"cash_collected"`
	CardCollected decimal.Decimal `db:"card_collected"`
	ItemsSold     int64           `db:"items_sold"`
}

// RefundTotals are the sums over return receipts in a period
type RefundTotals struct {
	RefundsCount int64           `db:"refunds_count"`
	RefundsTotal decimal.Decimal `db:"refunds_total"`
	RefundsCash  decimal.Decimal `db:"refunds_cash"`
	RefundsCard  decimal.Decimal `db:"refunds_card"`
}

// TopProduct ranks products by units sold
type TopProduct struct {
	ProductID   uuid.UUID       `db:"product_id"`
	ProductName string          `db:"product_name"`
	SKU         string          `db:"sku"`
	Quantity    int64           `db:"quantity"`
	Revenue     decimal.Decimal `db:"revenue"`
}

// SalesStats is the report summary shown on the dashboard
type SalesStats struct {
	SalesTotals
	RefundTotals
	AverageSale decimal.Decimal
	NetSales    decimal.Decimal
}

// NewSalesStats derives averages and net figures from the raw sums
func NewSalesStats(s SalesTotals, r RefundTotals) SalesStats {
	stats := SalesStats{SalesTotals: s, RefundTotals: r, AverageSale: decimal.Zero}
	if s.SalesCount > 0 {
		stats.AverageSale = s.GrossSales.Div(decimal.NewFromInt(s.SalesCount)).Round(2)
	}
	stats.NetSales = s.GrossSales.Sub(r.RefundsTotal)
	return stats
}

// SalesReportRepository defines the read queries behind the reports screen
type SalesReportRepository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	RefundTotals(ctx context.Context, from, to time.Time) (RefundTotals, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}
