package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/metrics"
)

func TestCorrelationID_ReusesIncomingHeader(t *testing.T) {
	var seen string
	h := CorrelationID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get(HeaderCorrelationID))
}

func TestCorrelationID_GeneratesAndLogsWithIt(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := CorrelationID(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context(), nil).Info("inside")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cid := rr.Header().Get(HeaderCorrelationID)
	require.NotEmpty(t, cid)
	entries := logs.FilterMessage("inside").All()
	require.Len(t, entries, 1)
	assert.Equal(t, cid, entries[0].ContextMap()["correlation_id"])
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)
	h := CorrelationID(logger)(Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "cid-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error","correlationId":"cid-1"}`, rr.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}

func TestRecover_AbortHandlerIsRethrown(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		allow      []string
		origin     string
		wantOrigin string
	}{
		{name: "allow all reflects origin", allow: []string{"*"}, origin: "http://a.example", wantOrigin: "http://a.example"},
		{name: "listed origin", allow: []string{"http://a.example"}, origin: "http://A.example", wantOrigin: "http://A.example"},
		{name: "unlisted origin", allow: []string{"http://a.example"}, origin: "http://b.example", wantOrigin: ""},
		{name: "no origin", allow: []string{"*"}, origin: "", wantOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(CORSOptions{AllowOrigins: tt.allow})(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_AllowedMethodsFollowRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(CORS(CORSOptions{AllowOrigins: []string{"http://a.example"}, Routes: r}))
	ok := func(w http.ResponseWriter, r *http.Request) {}
	r.Get("/cart/{sessionId}", ok)
	r.Post("/cart/{sessionId}", ok)
	r.Post("/confirm", ok)

	tests := []struct {
		path string
		want string
	}{
		{path: "/cart/s1", want: "GET,POST,OPTIONS"},
		{path: "/confirm", want: "POST,OPTIONS"},
		{path: "/nowhere", want: "OPTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			req.Header.Set("Origin", "http://a.example")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusNoContent, rr.Code)
			assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, HeaderCorrelationID, rr.Header().Get("Access-Control-Expose-Headers"))
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(AccessLog(zap.New(core), m))
	r.Get("/cart/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart/s1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/cart/{sessionId}", entries[0].ContextMap()["route"])
	assert.Equal(t, int64(http.StatusTeapot), entries[0].ContextMap()["status"])
	assert.Equal(t, "unmatched", entries[1].ContextMap()["route"])

	n, err := testutil.GatherAndCount(reg, "ui_backend_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
