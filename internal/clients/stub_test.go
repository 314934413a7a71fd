package clients

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/retry"
)

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// stubServer records every request and answers it with respond.
type stubServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newStubServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request, n int)) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		n := len(s.requests)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		respond(w, r, n)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func (s *stubServer) calls(method string) []recordedRequest {
	var out []recordedRequest
	for _, r := range s.recorded() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func newTestClient(name, baseURL string) *Client {
	return NewClient(name, baseURL, Options{Retry: retry.DefaultPolicy()})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
