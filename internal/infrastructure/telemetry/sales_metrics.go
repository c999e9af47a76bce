package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is passed to a metrics constructor
var ErrMeterNil = errors.New("meter cannot be nil")

// Attribute keys shared by the sales counters
var (
	AttrChannel       = attribute.Key("channel")
	AttrPaymentMethod = attribute.Key("payment_method")
	AttrRefundMethod  = attribute.Key("refund_method")
)

// SalesMetrics counts completed sales and refunds
type SalesMetrics struct {
	salesTotal   metric.Int64Counter
	revenueTotal metric.Float64Counter
	itemsSold    metric.Int64Counter
	refundsTotal metric.Int64Counter
	refundAmount metric.Float64Counter
}

// NewSalesMetrics registers the sales instruments on meter
func NewSalesMetrics(meter metric.Meter) (*SalesMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   SalesMetrics
		err error
	)
	if m.salesTotal, err = meter.Int64Counter("pos.sales.count",
		metric.WithDescription("Completed sales"), metric.WithUnit("{sale}")); err != nil {
		return nil, fmt.Errorf("failed to create counter pos.sales.count: %w", err)
	}
	if m.revenueTotal, err = meter.Float64Counter("pos.sales.revenue",
		metric.WithDescription("Sale totals including tax"), metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("failed to create counter pos.sales.revenue: %w", err)
	}
	if m.itemsSold, err = meter.Int64Counter("pos.sales.items",
		metric.WithDescription("Units sold"), metric.WithUnit("{item}")); err != nil {
		return nil, fmt.Errorf("failed to create counter pos.sales.items: %w", err)
	}
	if m.refundsTotal, err = meter.Int64Counter("pos.refunds.count",
		metric.WithDescription("Return receipts issued"), metric.WithUnit("{refund}")); err != nil {
		return nil, fmt.Errorf("failed to create counter pos.refunds.count: %w", err)
	}
	if m.refundAmount, err = meter.Float64Counter("pos.refunds.amount",
		metric.WithDescription("Money refunded"), metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("failed to create counter pos.refunds.amount: %w", err)
	}
	return &m, nil
}

// RecordSale counts one completed sale
func (m *SalesMetrics) RecordSale(ctx context.Context, channel, paymentMethod string, total decimal.Decimal, items int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrChannel.String(channel), AttrPaymentMethod.String(paymentMethod))
	m.salesTotal.Add(ctx, 1, attrs)
	m.revenueTotal.Add(ctx, total.InexactFloat64(), attrs)
	m.itemsSold.Add(ctx, int64(items), attrs)
}

// RecordRefund counts one return receipt
func (m *SalesMetrics) RecordRefund(ctx context.Context, refundMethod string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrRefundMethod.String(refundMethod))
	m.refundsTotal.Add(ctx, 1, attrs)
	m.refundAmount.Add(ctx, amount.InexactFloat64(), attrs)
}
