package httpapi

import (
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// Product is the product representation sent to the UI. What Units counts
// depends on the route: available units in the catalog, units held in the
// cart, or units just added.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Units       int     `json:"units"`
}

func productFromCatalog(p shop.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Units:       p.Available,
	}
}

func productFromLineItem(it shop.LineItem) Product {
	out := productFromCatalog(it.Product)
	out.Units = it.Units
	return out
}

func productsFromLineItems(items []shop.LineItem) []Product {
	out := make([]Product, 0, len(items))
	for _, it := range items {
		out = append(out, productFromLineItem(it))
	}
	return out
}

type ConfirmRequest struct {
	SessionID  string `json:"sessionId" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	CardOwner  string `json:"cardOwner" validate:"required"`
	Checksum   string `json:"checksum" validate:"required"`
}

func (r ConfirmRequest) order() shop.OrderRequest {
	return shop.OrderRequest{
		SessionID:  r.SessionID,
		CardNumber: r.CardNumber,
		CardOwner:  r.CardOwner,
		Checksum:   r.Checksum,
	}
}

type ConfirmResponse struct {
	Status    string  `json:"status"`
	SessionID string  `json:"sessionId"`
	Total     float64 `json:"total"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
