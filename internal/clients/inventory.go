package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// InventoryClient places reservations at the inventory service.
type InventoryClient struct {
	c               *Client
	reservationPath string
}

func NewInventoryClient(c *Client, reservationPath string) *InventoryClient {
	return &InventoryClient{c: c, reservationPath: reservationPath}
}

// MakeReservation reserves units of productID for sessionID. The returned
// item carries the product as the inventory reports it and the number of
// units it reserved. Nothing is undone on failure.
func (ic *InventoryClient) MakeReservation(ctx context.Context, sessionID, productID string, units int) (shop.LineItem, error) {
	req := shop.ReservationRequest{ProductID: productID, SessionID: sessionID, Units: units}

	body, err := ic.c.Do(ctx, http.MethodPost, ic.c.URL(ic.reservationPath), req)
	if err != nil {
		return shop.LineItem{}, fmt.Errorf("%w for session %s: %s, %d: %w",
			shop.ErrReservationFailed, sessionID, productID, units, err)
	}

	var p productJSON
	if err := json.Unmarshal(body, &p); err != nil {
		return shop.LineItem{}, fmt.Errorf("%w for session %s: %s, %d: decode response: %w",
			shop.ErrReservationFailed, sessionID, productID, units, err)
	}

	product := p.product("")
	if product.ID == "" {
		product.ID = productID
	}
	return shop.LineItem{Product: product, Units: p.Units}, nil
}
