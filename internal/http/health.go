package httpapi

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/clients"
)

const serviceName = "ui-backend"

type HealthHandler struct {
	Probes []clients.HealthProbe
}

func (h *HealthHandler) Self(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: serviceName})
}

// Upstreams probes every collaborator concurrently. The response is 200 even
// when some are down; the body says which.
func (h *HealthHandler) Upstreams(w http.ResponseWriter, r *http.Request) {
	results := make([]clients.HealthResult, len(h.Probes))

	g, ctx := errgroup.WithContext(r.Context())
	for i := range h.Probes {
		g.Go(func() error {
			results[i] = clients.CheckHealth(ctx, h.Probes[i])
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	for _, res := range results {
		if !res.OK {
			status = "degraded"
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"service":  serviceName,
		"upstream": results,
	})
}
