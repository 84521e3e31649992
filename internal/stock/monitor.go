package stock

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

// Fetcher returns the current availability report.
type Fetcher interface {
	Fetch(ctx context.Context) (Report, error)
}

// ProductDisabler turns off the purchase control of a product.
type ProductDisabler interface {
	DisableProductControl(name string)
}

// Metrics receives the result of every stock check.
type Metrics interface {
	IncCheck(result string)
	SetSoldOut(n int)
}

// MonitorParams wires a Monitor.
type MonitorParams struct {
	Registry *Registry
	Fetcher  Fetcher
	Disabler ProductDisabler
	Metrics  Metrics
	Logger   *logger.Logger
}

// Monitor reconciles the registry against the stock endpoint.
type Monitor struct {
	registry *Registry
	fetcher  Fetcher
	disabler ProductDisabler
	metrics  Metrics
	logg     *logger.Logger
}

// NewMonitor validates its dependencies and returns a Monitor.
func NewMonitor(p MonitorParams) (*Monitor, error) {
	if p.Registry == nil {
		return nil, errors.New("stock registry required")
	}
	if p.Fetcher == nil {
		return nil, errors.New("stock fetcher required")
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Monitor{
		registry: p.Registry,
		fetcher:  p.Fetcher,
		disabler: p.Disabler,
		metrics:  p.Metrics,
		logg:     logg,
	}, nil
}

// CheckStock fetches availability once and disables every product reported
// sold out. Any failure leaves all products untouched and is only logged.
// It returns the names disabled by this call.
func (m *Monitor) CheckStock(ctx context.Context) []string {
	report, err := m.fetcher.Fetch(ctx)
	if err != nil {
		m.logg.WarnErr(ctx, "stock check failed", err)
		m.incCheck(metrics.StockCheckFailed)
		return nil
	}
	m.incCheck(metrics.StockCheckOK)

	var disabled []string
	for _, product := range m.registry.Products() {
		label, ok := report.Status(product.StockKey)
		if !ok || enums.ParseReportedStockStatus(label) != enums.StockStatusSoldOut {
			continue
		}
		if !m.registry.MarkSoldOut(product.StockKey) {
			continue
		}
		disabled = append(disabled, product.Name)
		if m.disabler != nil {
			m.disabler.DisableProductControl(product.Name)
		}
	}

	if m.metrics != nil {
		m.metrics.SetSoldOut(len(m.registry.SoldOut()))
	}
	if len(disabled) > 0 {
		m.logg.Info(m.logg.WithField(ctx, "products", disabled), "products sold out")
	}
	return disabled
}

func (m *Monitor) incCheck(result string) {
	if m.metrics != nil {
		m.metrics.IncCheck(result)
	}
}
