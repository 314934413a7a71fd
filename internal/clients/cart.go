package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// CartClient reads and replaces the cart document of a session in the cart
// store. Updates are read-modify-write with no concurrency token, so two
// concurrent updates of the same cart can lose one of them.
type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

type cartDocument struct {
	Content shop.CartContent `json:"content"`
}

// GetCartContent returns the content of the session's cart. The error wraps
// shop.ErrCartNotFound when the store has no cart for the session; any other
// error means the cart could not be read.
func (cc *CartClient) GetCartContent(ctx context.Context, sessionID string) (shop.CartContent, error) {
	var doc cartDocument
	err := cc.c.getJSON(ctx, cc.c.URL(sessionID), &doc)
	if IsNotFound(err) {
		return nil, fmt.Errorf("%w: session %s", shop.ErrCartNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if doc.Content == nil {
		return shop.CartContent{}, nil
	}
	doc.Content.Prune()
	return doc.Content, nil
}

// AddItemToCart adds units of productID to the session's cart, creating the
// cart if there is none.
func (cc *CartClient) AddItemToCart(ctx context.Context, sessionID, productID string, units int) error {
	if units < 0 {
		return fmt.Errorf("%w: %d", shop.ErrInvalidUnits, units)
	}

	content, err := cc.GetCartContent(ctx, sessionID)
	switch {
	case errors.Is(err, shop.ErrCartNotFound):
		content = shop.CartContent{}
	case err != nil:
		return fmt.Errorf("%w: could not add %d units of product %s for session %s: %w",
			shop.ErrCartInteractionFailed, units, productID, sessionID, err)
	}

	content.Add(productID, units)

	if err := cc.put(ctx, sessionID, content); err != nil {
		return fmt.Errorf("%w: could not add %d units of product %s for session %s: %w",
			shop.ErrCartInteractionFailed, units, productID, sessionID, err)
	}
	return nil
}

// DeleteItemFromCart removes up to units of productID from the session's
// cart. The product is dropped once no units are left. A session without a
// cart is left alone.
func (cc *CartClient) DeleteItemFromCart(ctx context.Context, sessionID, productID string, units int) error {
	if units < 0 {
		return fmt.Errorf("%w: %d", shop.ErrInvalidUnits, units)
	}

	content, err := cc.GetCartContent(ctx, sessionID)
	switch {
	case errors.Is(err, shop.ErrCartNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("%w: deletion for session %s failed: %s, %d: %w",
			shop.ErrCartInteractionFailed, sessionID, productID, units, err)
	}

	content.Remove(productID, units)

	if err := cc.put(ctx, sessionID, content); err != nil {
		return fmt.Errorf("%w: deletion for session %s failed: %s, %d: %w",
			shop.ErrCartInteractionFailed, sessionID, productID, units, err)
	}
	return nil
}

// DeleteCart removes the whole cart of the session. A cart that is already
// gone is not an error.
func (cc *CartClient) DeleteCart(ctx context.Context, sessionID string) error {
	_, err := cc.c.Do(ctx, http.MethodDelete, cc.c.URL(sessionID), nil)
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("%w: could not delete cart of session %s: %w",
			shop.ErrCartInteractionFailed, sessionID, err)
	}
	return nil
}

func (cc *CartClient) put(ctx context.Context, sessionID string, content shop.CartContent) error {
	if content == nil {
		content = shop.CartContent{}
	}
	_, err := cc.c.Do(ctx, http.MethodPut, cc.c.URL(sessionID), cartDocument{Content: content})
	return err
}
