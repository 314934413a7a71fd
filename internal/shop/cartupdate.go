package shop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeAdded   Outcome = "added"
	OutcomeRemoved Outcome = "removed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ItemResult reports what happened to one delta of a cart update.
type ItemResult struct {
	Delta   CartDelta
	Outcome Outcome
	// Item is set for OutcomeAdded; Units is the number of units requested.
	Item LineItem
	// Err is set for OutcomeFailed.
	Err error
}

type UpdateReport struct {
	Items []ItemResult
}

// Added returns the successfully added items in request order.
func (r UpdateReport) Added() []LineItem {
	out := make([]LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Outcome == OutcomeAdded {
			out = append(out, it.Item)
		}
	}
	return out
}

// Failed returns the results of every delta that failed.
func (r UpdateReport) Failed() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if it.Outcome == OutcomeFailed {
			out = append(out, it)
		}
	}
	return out
}

// UpdateCart applies deltas to the session's cart one after the other.
//
// A positive delta is first reserved in the inventory and only then added to
// the cart. A negative delta removes its absolute value from the cart. Zero
// is skipped. A failing delta is recorded in the report and does not stop the
// others.
//
// When at least one add was requested and none succeeded, the report is
// returned with an error wrapping ErrReservationFailed that lists every failed
// add.
func (s *Service) UpdateCart(ctx context.Context, sessionID string, deltas []CartDelta) (UpdateReport, error) {
	ctx = detach(ctx)
	log := s.logger(ctx).With(zap.String("session_id", sessionID))

	report := UpdateReport{Items: make([]ItemResult, 0, len(deltas))}
	var (
		addsRequested int
		addsSucceeded int
		addFailures   []error
	)

	for _, d := range deltas {
		var res ItemResult
		switch {
		case d.Units == 0:
			res = ItemResult{Delta: d, Outcome: OutcomeSkipped}
		case d.Units > 0:
			addsRequested++
			res = s.addItem(ctx, sessionID, d)
			if res.Outcome == OutcomeAdded {
				addsSucceeded++
			} else {
				addFailures = append(addFailures, res.Err)
			}
		default:
			res = s.removeItem(ctx, sessionID, d)
		}

		if res.Err != nil {
			log.Error("cart update item failed",
				zap.String("product_id", d.ProductID),
				zap.Int("units", d.Units),
				zap.Error(res.Err))
		}
		s.metrics.IncCartItem(string(res.Outcome))
		report.Items = append(report.Items, res)
	}

	if addsRequested > 0 && addsSucceeded == 0 {
		return report, fmt.Errorf("%w: none of %d items could be added to the cart of session %s: %w",
			ErrReservationFailed, addsRequested, sessionID, errors.Join(addFailures...))
	}
	return report, nil
}

func (s *Service) addItem(ctx context.Context, sessionID string, d CartDelta) ItemResult {
	// Reserve before touching the cart: a dangling reservation is preferable
	// to cart units that are not backed by the inventory.
	reserved, err := s.inventory.MakeReservation(ctx, sessionID, d.ProductID, d.Units)
	if err != nil {
		return ItemResult{Delta: d, Outcome: OutcomeFailed, Err: err}
	}

	if err := s.cart.AddItemToCart(ctx, sessionID, d.ProductID, d.Units); err != nil {
		return ItemResult{Delta: d, Outcome: OutcomeFailed, Err: err}
	}

	reserved.Units = d.Units
	return ItemResult{Delta: d, Outcome: OutcomeAdded, Item: reserved}
}

func (s *Service) removeItem(ctx context.Context, sessionID string, d CartDelta) ItemResult {
	if err := s.cart.DeleteItemFromCart(ctx, sessionID, d.ProductID, -d.Units); err != nil {
		return ItemResult{Delta: d, Outcome: OutcomeFailed, Err: err}
	}
	return ItemResult{Delta: d, Outcome: OutcomeRemoved}
}
