package stock

import (
	"sort"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Product is one monitored catalog entry.
type Product struct {
	Name      string            `json:"name"`
	StockKey  string            `json:"stock_key"`
	UnitPrice int64             `json:"unit_price"`
	Status    enums.StockStatus `json:"status"`
}

// Registry holds product availability keyed by stock key. A product marked
// sold out stays sold out for the life of the registry.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byKey  map[string]*Product
	byName map[string]string
}

// NewRegistry builds a registry from the configured catalog. Every product
// starts available.
func NewRegistry(catalog config.Catalog) (*Registry, error) {
	r := &Registry{
		byKey:  make(map[string]*Product, len(catalog)),
		byName: make(map[string]string, len(catalog)),
	}
	for _, entry := range catalog {
		name := strings.TrimSpace(entry.Name)
		key := strings.TrimSpace(entry.StockKey)
		if name == "" || key == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog entry requires name and stock key")
		}
		if entry.UnitPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog price cannot be negative").WithDetails(map[string]any{"name": name})
		}
		if _, ok := r.byKey[key]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate stock key").WithDetails(map[string]any{"stock_key": key})
		}
		if _, ok := r.byName[name]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product name").WithDetails(map[string]any{"name": name})
		}
		r.byKey[key] = &Product{
			Name:      name,
			StockKey:  key,
			UnitPrice: entry.UnitPrice,
			Status:    enums.StockStatusAvailable,
		}
		r.byName[name] = key
		r.order = append(r.order, key)
	}
	return r, nil
}

// Lookup finds a product by display name.
func (r *Registry) Lookup(name string) (Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byName[name]
	if !ok {
		return Product{}, false
	}
	return *r.byKey[key], true
}

// Products returns every product in catalog order.
func (r *Registry) Products() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.byKey[key])
	}
	return out
}

// MarkSoldOut flags the product with the given stock key as sold out and
// reports whether its status changed.
func (r *Registry) MarkSoldOut(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.byKey[key]
	if !ok || product.Status == enums.StockStatusSoldOut {
		return false
	}
	product.Status = enums.StockStatusSoldOut
	return true
}

// Available reports whether the named product exists and is not sold out.
func (r *Registry) Available(name string) bool {
	product, ok := r.Lookup(name)
	return ok && product.Status == enums.StockStatusAvailable
}

// SoldOut returns the display names of sold-out products, sorted.
func (r *Registry) SoldOut() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, product := range r.byKey {
		if product.Status == enums.StockStatusSoldOut {
			names = append(names, product.Name)
		}
	}
	sort.Strings(names)
	return names
}
