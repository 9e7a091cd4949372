package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BillsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_bills_created_total",
		Help: "Bills saved at checkout",
	}, []string{"type", "payment_method"})

	SalesAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_amount_total",
		Help: "Sum of final bill totals in rupees",
	})

	CheckoutRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_rejected_total",
		Help: "Checkouts refused before any state change",
	}, []string{"reason"})

	LedgerPostingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "khata_ledger_postings_total",
		Help: "Khata entries appended",
	}, []string{"type"})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_adjustments_total",
		Help: "Stock log entries by reason",
	}, []string{"reason"})

	SecurityEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_security_events_total",
		Help: "Security notifications raised",
	}, []string{"type"})

	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_barcode_scans_total",
		Help: "Barcode scans by outcome",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
