package enums

import "strings"

// StockStatus is the availability reported for a monitored product.
type StockStatus string

const (
	StockStatusAvailable StockStatus = "AVAILABLE"
	StockStatusSoldOut   StockStatus = "SOLD_OUT"
)

// soldOutLabel is the literal the stock endpoint reports for unavailable products.
const soldOutLabel = "sold out"

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// ParseReportedStockStatus maps the endpoint's free-form label onto a StockStatus.
// Anything other than a case-insensitive "sold out" counts as available.
func ParseReportedStockStatus(label string) StockStatus {
	if strings.EqualFold(label, soldOutLabel) {
		return StockStatusSoldOut
	}
	return StockStatusAvailable
}
