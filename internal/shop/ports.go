package shop

import "context"

type Catalog interface {
	// ListAllProducts never fails; on errors it returns what it got.
	ListAllProducts(ctx context.Context) []Product
	// GetProduct returns ErrProductNotFound when the inventory does not
	// know the product and another error when it could not be asked.
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Cart interface {
	// GetCartContent returns ErrCartNotFound when the session has no cart.
	GetCartContent(ctx context.Context, sessionID string) (CartContent, error)
	AddItemToCart(ctx context.Context, sessionID, productID string, units int) error
	DeleteItemFromCart(ctx context.Context, sessionID, productID string, units int) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type Inventory interface {
	// MakeReservation returns the reserved product; Units is the number of
	// units the inventory reserved.
	MakeReservation(ctx context.Context, sessionID, productID string, units int) (LineItem, error)
}

type Orchestrator interface {
	StartTransaction(ctx context.Context, req SagaRequest) error
}

type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
}

type ComputeSimulator interface {
	Simulate(ctx context.Context, sessionID string) error
}
