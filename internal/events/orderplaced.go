package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

const (
	orderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
	orderPlacedSchema       = "contracts/events/ui/OrderPlaced.v1.payload.schema.json"
	producerName            = "ui-backend"
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Units     int     `json:"units"`
	Price     float64 `json:"price"`
}

// OrderPlacedPayload is the v1 payload.
type OrderPlacedPayload struct {
	SessionID string      `json:"sessionId"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	PlacedAt  time.Time   `json:"placedAt"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope wraps an accepted order. A missing correlation id
// is generated.
func BuildOrderPlacedEnvelope(ev shop.OrderPlaced, correlationID string, now time.Time) OrderPlacedEnvelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	items := make([]OrderItem, 0, len(ev.Items))
	for _, it := range ev.Items {
		items = append(items, OrderItem{
			ProductID: it.Product.ID,
			Units:     it.Units,
			Price:     it.Product.Price.InexactFloat64(),
		})
	}

	return OrderPlacedEnvelope{
		EventName:     orderPlacedEventName,
		EventVersion:  orderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producerName,
		PartitionKey:  ev.SessionID,
		OccurredAt:    now.UTC(),
		Schema:        orderPlacedSchema,
		Payload: OrderPlacedPayload{
			SessionID: ev.SessionID,
			Items:     items,
			Total:     ev.Total.InexactFloat64(),
			PlacedAt:  now.UTC(),
		},
	}
}
