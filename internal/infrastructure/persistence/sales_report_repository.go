package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailpos/backend/internal/domain/report"
)

// SqlxSalesReportRepository runs the dashboard aggregate queries with sqlx
type SqlxSalesReportRepository struct {
	db *sqlx.DB
}

// NewSqlxSalesReportRepository creates a new SqlxSalesReportRepository
func NewSqlxSalesReportRepository(db *sqlx.DB) *SqlxSalesReportRepository {
	return &SqlxSalesReportRepository{db: db}
}

const salesTotalsQuery = `
SELECT
	COUNT(*) AS sales_count,
	COALESCE(SUM(s.total_amount), 0) AS gross_sales,
	COALESCE(SUM(s.subtotal), 0) AS subtotal,
	COALESCE(SUM(s.tax_amount), 0) AS tax,
	COALESCE(SUM(s.discount_amount), 0) AS discount,
	COALESCE(SUM(s.cash_amount - s.change_due), 0) AS cash_collected,
	COALESCE(SUM(s.card_amount), 0) AS card_collected,
	COALESCE((
		SELECT SUM(si.quantity)
		FROM sale_items si
		JOIN sales s2 ON s2.id = si.sale_id
		WHERE s2.created_at >= $1 AND s2.created_at < $2
	), 0) AS items_sold
FROM sales s
WHERE s.created_at >= $1 AND s.created_at < $2`

const refundTotalsQuery = `
SELECT
	COUNT(*) AS refunds_count,
	COALESCE(SUM(refund_total), 0) AS refunds_total,
	COALESCE(SUM(refund_cash), 0) AS refunds_cash,
	COALESCE(SUM(refund_card), 0) AS refunds_card
FROM return_receipts
WHERE created_at >= $1 AND created_at < $2`

const topProductsQuery = `
SELECT
	si.product_id,
	MAX(si.product_name) AS product_name,
	MAX(si.sku) AS sku,
	SUM(si.quantity) AS quantity,
	SUM(si.line_total) AS revenue
FROM sale_items si
JOIN sales s ON s.id = si.sale_id
WHERE s.created_at >= $1 AND s.created_at < $2
GROUP BY si.product_id
ORDER BY quantity DESC, revenue DESC
LIMIT $3`

// SalesTotals sums sales created in [from, to)
func (r *SqlxSalesReportRepository) SalesTotals(ctx context.Context, from, to time.Time) (report.SalesTotals, error) {
	var totals report.SalesTotals
	if err := r.db.GetContext(ctx, &totals, salesTotalsQuery, from, to); err != nil {
		return report.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return totals, nil
}

// RefundTotals sums return receipts issued in [from, to)
func (r *SqlxSalesReportRepository) RefundTotals(ctx context.Context, from, to time.Time) (report.RefundTotals, error) {
	var totals report.RefundTotals
	if err := r.db.GetContext(ctx, &totals, refundTotalsQuery, from, to); err != nil {
		return report.RefundTotals{}, fmt.Errorf("refund totals: %w", err)
	}
	return totals, nil
}

// TopProducts ranks products by units sold in [from, to)
func (r *SqlxSalesReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]report.TopProduct, error) {
	products := []report.TopProduct{}
	if err := r.db.SelectContext(ctx, &products, topProductsQuery, from, to, limit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return products, nil
}

// Ensure SqlxSalesReportRepository implements SalesReportRepository
var _ report.SalesReportRepository = (*SqlxSalesReportRepository)(nil)
