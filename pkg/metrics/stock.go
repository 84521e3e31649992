package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	StockCheckOK     = "ok"
	StockCheckFailed = "failed"
)

// StockMetrics records the startup stock check.
type StockMetrics struct {
	checks  *prometheus.CounterVec
	soldOut prometheus.Gauge
}

// NewStockMetrics registers the stock metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	checks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_checks_total",
		Help: "Stock checks by result.",
	}, []string{"result"})
	soldOut := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stock_sold_out_products",
		Help: "Products currently marked sold out.",
	})
	reg.MustRegister(checks, soldOut)
	return &StockMetrics{
		checks:  checks,
		soldOut: soldOut,
	}
}

// IncCheck counts one stock check with the given result.
func (s *StockMetrics) IncCheck(result string) {
	if s == nil || s.checks == nil {
		return
	}
	s.checks.WithLabelValues(normalizeLabel(result)).Inc()
}

// SetSoldOut records the number of sold-out products.
func (s *StockMetrics) SetSoldOut(n int) {
	if s == nil || s.soldOut == nil {
		return
	}
	s.soldOut.Set(float64(n))
}
