package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CORSOptions struct {
	// AllowOrigins lists the accepted origins; "*" accepts any.
	AllowOrigins []string

	// Routes, when set, narrows Access-Control-Allow-Methods to the methods
	// registered for the requested path.
	Routes chi.Routes
}

var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

const corsAllowHeaders = "Content-Type, Authorization, " + HeaderCorrelationID

// CORS answers preflight requests itself and decorates every other response
// from an accepted origin. The origin is echoed back rather than "*" so the
// UI may send credentials.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origins := newOriginSet(opts.AllowOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" && origins.accepts(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", strings.Join(allowedMethods(opts.Routes, r.URL.Path), ","))
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Expose-Headers", HeaderCorrelationID)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowedMethods(routes chi.Routes, path string) []string {
	if routes == nil {
		return append(append([]string(nil), corsMethods...), http.MethodOptions)
	}
	out := make([]string, 0, len(corsMethods)+1)
	for _, m := range corsMethods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			out = append(out, m)
		}
	}
	return append(out, http.MethodOptions)
}

type originSet struct {
	any     bool
	origins map[string]struct{}
}

func newOriginSet(allow []string) originSet {
	s := originSet{origins: make(map[string]struct{}, len(allow))}
	for _, a := range allow {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "*" {
			s.any = true
		}
		s.origins[a] = struct{}{}
	}
	return s
}

func (s originSet) accepts(origin string) bool {
	if s.any {
		return true
	}
	_, ok := s.origins[strings.ToLower(strings.TrimSpace(origin))]
	return ok
}
