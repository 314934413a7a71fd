package clients

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SimulatorClient triggers the computation simulator, a collaborator that
// burns CPU on demand to model an expensive step after checkout.
type SimulatorClient struct{ c *Client }

func NewSimulatorClient(c *Client) *SimulatorClient { return &SimulatorClient{c: c} }

// Simulate blocks until the simulator has finished. The simulator takes no
// input; the session only labels the span around the call.
func (sc *SimulatorClient) Simulate(ctx context.Context, sessionID string) error {
	ctx, span := sc.c.tracer.Start(ctx, "simulate-computation")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	_, err := sc.c.Do(ctx, http.MethodPost, sc.c.URL(), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
