package shop

import "errors"

var (
	// ErrReservationFailed means the inventory declined a reservation or
	// could not be reached.
	ErrReservationFailed = errors.New("reservation failed")

	// ErrCartInteractionFailed means the cart store could not be read or
	// written.
	ErrCartInteractionFailed = errors.New("cart interaction failed")

	// ErrOrderNotPlaced means the cart total was zero or the orchestrator
	// did not accept the order.
	ErrOrderNotPlaced = errors.New("order not placed")

	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidUnits is returned for negative unit counts where only
	// non-negative ones are allowed.
	ErrInvalidUnits = errors.New("units must not be negative")
)
