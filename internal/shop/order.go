package shop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConfirmOrder places the order for everything in the session's cart.
//
// The total is computed here from the cart and current inventory prices; it
// is never partial. A zero total fails without contacting the orchestrator.
// Once the orchestrator has accepted, the order counts as placed: clearing
// the cart, announcing the order and the compute simulation are best effort.
func (s *Service) ConfirmOrder(ctx context.Context, req OrderRequest) (Confirmation, error) {
	ctx = detach(ctx)
	log := s.logger(ctx).With(zap.String("session_id", req.SessionID))

	items, total := s.cartTotal(ctx, req.SessionID)
	if !total.IsPositive() {
		s.metrics.IncOrder("empty")
		return Confirmation{}, fmt.Errorf("%w: no order placed for session %s: cart is either empty or not available",
			ErrOrderNotPlaced, req.SessionID)
	}

	saga := SagaRequest{
		SessionID:  req.SessionID,
		CardNumber: req.CardNumber,
		CardOwner:  req.CardOwner,
		Checksum:   req.Checksum,
		Total:      total,
	}
	if err := s.orchestrator.StartTransaction(ctx, saga); err != nil {
		s.metrics.IncOrder("rejected")
		log.Error("failed to contact orchestrator", zap.Error(err))
		return Confirmation{}, fmt.Errorf("%w: no order placed for session %s: orchestrator not available: %w",
			ErrOrderNotPlaced, req.SessionID, err)
	}
	s.metrics.IncOrder("placed")
	log.Info("orchestrator accepted order", zap.String("total", total.StringFixed(2)))

	if err := s.cart.DeleteCart(ctx, req.SessionID); err != nil {
		log.Error("failed to delete cart", zap.Error(err))
	} else {
		log.Info("deleted cart")
	}

	if s.events != nil {
		ev := OrderPlaced{SessionID: req.SessionID, Total: total, Items: items}
		if err := s.events.PublishOrderPlaced(ctx, ev); err != nil {
			log.Error("failed to publish order placed event", zap.Error(err))
		}
	}

	if s.simulator != nil {
		log.Info("start computation simulation")
		if err := s.simulator.Simulate(ctx, req.SessionID); err != nil {
			log.Error("failed to contact computation simulator", zap.Error(err))
		} else {
			log.Info("finished computation simulation")
		}
	}

	return Confirmation{SessionID: req.SessionID, Total: total}, nil
}

// cartTotal prices every product in the session's cart. If the cart cannot be
// read or any product cannot be priced, the total is zero: the store does not
// take partial orders.
func (s *Service) cartTotal(ctx context.Context, sessionID string) ([]LineItem, decimal.Decimal) {
	log := s.logger(ctx).With(zap.String("session_id", sessionID))

	content, err := s.cart.GetCartContent(ctx, sessionID)
	if err != nil {
		log.Warn("cannot read cart for total", zap.Error(err))
		return nil, decimal.Zero
	}

	total := decimal.Zero
	items := make([]LineItem, 0, len(content))
	for _, id := range content.ProductIDs() {
		p, err := s.catalog.GetProduct(ctx, id)
		if err != nil {
			log.Warn("cannot price product, total is zero", zap.String("product_id", id), zap.Error(err))
			return nil, decimal.Zero
		}
		item := LineItem{Product: p, Units: content.Units(id)}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}
	return items, total
}
