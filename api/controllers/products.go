package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/stock"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/money"
)

type productResponse struct {
	Name       string            `json:"name"`
	StockKey   string            `json:"stock_key"`
	UnitPrice  int64             `json:"unit_price"`
	PriceLabel string            `json:"price_label"`
	Status     enums.StockStatus `json:"status"`
	Available  bool              `json:"available"`
}

// Products lists the catalog in display order with current availability.
func Products(registry *stock.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		products := registry.Products()
		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, productResponse{
				Name:       p.Name,
				StockKey:   p.StockKey,
				UnitPrice:  p.UnitPrice,
				PriceLabel: money.Format(p.UnitPrice),
				Status:     p.Status,
				Available:  p.Status != enums.StockStatusSoldOut,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
