package config

import (
	"fmt"
	"strconv"
	"strings"
)

// CatalogProduct describes one product card offered on the storefront.
type CatalogProduct struct {
	Name      string
	StockKey  string
	UnitPrice int64
}

// Catalog is decoded from `Name|stockKey|price` entries separated by `;`.
type Catalog []CatalogProduct

// Decode implements envconfig.Decoder.
func (c *Catalog) Decode(value string) error {
	var out Catalog
	seen := map[string]struct{}{}
	for _, raw := range strings.Split(value, ";") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) != 3 {
			return fmt.Errorf("catalog entry %q must be name|stockKey|price", entry)
		}
		name := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if name == "" || key == "" {
			return fmt.Errorf("catalog entry %q has an empty name or stock key", entry)
		}
		price, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		if err != nil {
			return fmt.Errorf("catalog entry %q has invalid price: %w", entry, err)
		}
		if price < 0 {
			return fmt.Errorf("catalog entry %q has a negative price", entry)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("catalog lists %q twice", name)
		}
		seen[name] = struct{}{}
		out = append(out, CatalogProduct{Name: name, StockKey: key, UnitPrice: price})
	}
	*c = out
	return nil
}
