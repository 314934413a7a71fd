package shop

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

var errUnavailable = errors.New("unavailable")

// callLog records collaborator calls in the order they happen.
type callLog struct{ calls []string }

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeCatalog struct {
	log      *callLog
	products map[string]Product
	failing  map[string]bool
}

func (f *fakeCatalog) ListAllProducts(ctx context.Context) []Product {
	f.log.add("catalog.list")
	out := make([]Product, 0, len(f.products))
	for _, id := range slices.Sorted(maps.Keys(f.products)) {
		out = append(out, f.products[id])
	}
	return out
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID string) (Product, error) {
	f.log.add("catalog.get %s", productID)
	if f.failing[productID] {
		return Product{}, errUnavailable
	}
	p, ok := f.products[productID]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return p, nil
}

type fakeCart struct {
	log       *callLog
	content   CartContent // nil means no cart
	readErr   error
	writeErr  map[string]error
	deleteErr error
}

func (f *fakeCart) GetCartContent(ctx context.Context, sessionID string) (CartContent, error) {
	f.log.add("cart.get %s", sessionID)
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.content == nil {
		return nil, ErrCartNotFound
	}
	return maps.Clone(f.content), nil
}

func (f *fakeCart) AddItemToCart(ctx context.Context, sessionID, productID string, units int) error {
	f.log.add("cart.add %s %d", productID, units)
	if err := f.writeErr[productID]; err != nil {
		return err
	}
	if f.content == nil {
		f.content = CartContent{}
	}
	f.content.Add(productID, units)
	return nil
}

func (f *fakeCart) DeleteItemFromCart(ctx context.Context, sessionID, productID string, units int) error {
	f.log.add("cart.delete %s %d", productID, units)
	if err := f.writeErr[productID]; err != nil {
		return err
	}
	if f.content != nil {
		f.content.Remove(productID, units)
	}
	return nil
}

func (f *fakeCart) DeleteCart(ctx context.Context, sessionID string) error {
	f.log.add("cart.deleteAll %s", sessionID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.content = nil
	return nil
}

type fakeInventory struct {
	log      *callLog
	products map[string]Product
	failing  map[string]bool
}

func (f *fakeInventory) MakeReservation(ctx context.Context, sessionID, productID string, units int) (LineItem, error) {
	f.log.add("inventory.reserve %s %d", productID, units)
	if f.failing[productID] {
		return LineItem{}, fmt.Errorf("%w for session %s: %s, %d", ErrReservationFailed, sessionID, productID, units)
	}
	return LineItem{Product: f.products[productID], Units: units}, nil
}

type fakeOrchestrator struct {
	log      *callLog
	err      error
	received []SagaRequest
}

func (f *fakeOrchestrator) StartTransaction(ctx context.Context, req SagaRequest) error {
	f.log.add("orchestrator.start %s", req.SessionID)
	f.received = append(f.received, req)
	return f.err
}

type fakeEvents struct {
	log       *callLog
	err       error
	published []OrderPlaced
}

func (f *fakeEvents) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	f.log.add("events.orderPlaced %s", ev.SessionID)
	f.published = append(f.published, ev)
	return f.err
}

type fakeSimulator struct {
	log *callLog
	err error
}

func (f *fakeSimulator) Simulate(ctx context.Context, sessionID string) error {
	f.log.add("simulator %s", sessionID)
	return f.err
}

type fixture struct {
	log          *callLog
	catalog      *fakeCatalog
	cart         *fakeCart
	inventory    *fakeInventory
	orchestrator *fakeOrchestrator
	events       *fakeEvents
	simulator    *fakeSimulator
	svc          *Service
}

func product(id, price string, available int) Product {
	return Product{
		ID:          id,
		Name:        "name of " + id,
		Description: "description of " + id,
		Price:       decimal.RequireFromString(price),
		Available:   available,
	}
}

func newFixture(cart CartContent) *fixture {
	log := &callLog{}
	products := map[string]Product{
		"foo": product("foo", "1.50", 10),
		"bar": product("bar", "2.25", 5),
	}
	f := &fixture{
		log:          log,
		catalog:      &fakeCatalog{log: log, products: products, failing: map[string]bool{}},
		cart:         &fakeCart{log: log, content: cart, writeErr: map[string]error{}},
		inventory:    &fakeInventory{log: log, products: products, failing: map[string]bool{}},
		orchestrator: &fakeOrchestrator{log: log},
		events:       &fakeEvents{log: log},
		simulator:    &fakeSimulator{log: log},
	}
	f.svc = NewService(Deps{
		Catalog:      f.catalog,
		Cart:         f.cart,
		Inventory:    f.inventory,
		Orchestrator: f.orchestrator,
		Events:       f.events,
	})
	return f
}
