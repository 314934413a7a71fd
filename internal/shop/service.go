// Package shop coordinates the catalog, cart store, inventory and order
// orchestrator on behalf of the UI.
//
// The collaborators share no transaction. The service keeps to one rule
// instead: units are reserved in the inventory before they are written to a
// cart, so a failure leaves a dangling reservation rather than an unreserved
// cart entry. Dangling reservations are not compensated.
//
// Every entry point detaches from the caller's cancellation: once a
// collaborator call is issued it runs to completion or failure, even when the
// client has gone away.
package shop

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/metrics"
)

type Deps struct {
	Catalog      Catalog
	Cart         Cart
	Inventory    Inventory
	Orchestrator Orchestrator

	// Events and Simulator are optional.
	Events    OrderEvents
	Simulator ComputeSimulator

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type Service struct {
	catalog      Catalog
	cart         Cart
	inventory    Inventory
	orchestrator Orchestrator
	events       OrderEvents
	simulator    ComputeSimulator

	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewService(d Deps) *Service {
	s := &Service{
		catalog:      d.Catalog,
		cart:         d.Cart,
		inventory:    d.Inventory,
		orchestrator: d.Orchestrator,
		events:       d.Events,
		simulator:    d.Simulator,
		log:          d.Logger,
		metrics:      d.Metrics,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.simulator != nil {
		s.log.Warn("compute intensive task simulation enabled; the simulator is called after every confirmed order")
	}
	return s
}

// detach keeps the values of ctx (correlation id, logger, span) and drops its
// cancellation.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logging.FromContext(ctx, s.log)
}

// ListAllProducts returns the whole catalog. It may be incomplete if the
// inventory could not be read to the end.
func (s *Service) ListAllProducts(ctx context.Context) []Product {
	ctx = detach(ctx)
	return s.catalog.ListAllProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, productID string) (Product, error) {
	ctx = detach(ctx)
	return s.catalog.GetProduct(ctx, productID)
}

// ProductsInCart returns the products in the session's cart, each with the
// units held in the cart. Products the inventory cannot describe are left
// out; a cart that cannot be read yields an empty list.
func (s *Service) ProductsInCart(ctx context.Context, sessionID string) []LineItem {
	ctx = detach(ctx)
	log := s.logger(ctx).With(zap.String("session_id", sessionID))

	content, err := s.cart.GetCartContent(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			log.Debug("session has no cart")
		} else {
			log.Error("cannot get cart content", zap.Error(err))
		}
		return []LineItem{}
	}

	items := make([]LineItem, 0, len(content))
	for _, id := range content.ProductIDs() {
		p, err := s.catalog.GetProduct(ctx, id)
		if err != nil {
			log.Error("cannot get product in cart", zap.String("product_id", id), zap.Error(err))
			continue
		}
		items = append(items, LineItem{Product: p, Units: content.Units(id)})
	}
	return items
}
