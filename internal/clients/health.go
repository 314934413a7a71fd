package clients

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type HealthProbe struct {
	Name   string
	Client *Client
	Path   string
}

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CheckHealth probes once, without retries. An absolute Path replaces the
// path of the client's base URL.
func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	// Short probe timeout
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	u := probe.Client.BaseURL.ResolveReference(&url.URL{Path: probe.Path})
	_, status, err := probe.Client.exchange(ctx, http.MethodGet, u, nil)
	if err != nil {
		return HealthResult{Name: probe.Name, OK: false, StatusCode: status, Error: err.Error()}
	}
	return HealthResult{Name: probe.Name, OK: true, StatusCode: status}
}
