package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/retry"
)

const tracerName = "github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/clients"

// Options is shared by every collaborator client. Each client gets its own
// copy at construction; nothing here is process-global.
type Options struct {
	HTTP    *http.Client
	Retry   retry.Policy
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client

	retry   retry.Policy
	log     *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewClient(name string, baseURL string, opts Options) *Client {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}

	c := &Client{
		Name:    name,
		BaseURL: u,
		HTTP:    opts.HTTP,
		retry:   opts.Retry,
		log:     opts.Logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

// URL returns the base URL with the given path segments appended.
func (c *Client) URL(segments ...string) *url.URL {
	return c.BaseURL.JoinPath(segments...)
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s %s returned status %d", e.Service, e.Method, e.URL, e.StatusCode)
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Do sends the request under the client's retry policy and returns the body
// of the first 2xx response. in, when not nil, is sent as JSON. A 404 is
// returned at once; every other failure is attempted again.
func (c *Client) Do(ctx context.Context, method string, u *url.URL, in any) ([]byte, error) {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", c.Name, err)
		}
		payload = b
	}

	policy := c.retry
	hook := policy.OnRetry
	policy.OnRetry = func(attempt int, err error) {
		c.metrics.IncRetry(c.Name)
		logging.FromContext(ctx, c.log).Warn("retrying outbound call",
			zap.String("service", c.Name),
			zap.String("method", method),
			zap.String("url", u.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if hook != nil {
			hook(attempt, err)
		}
	}

	return retry.DoValue(ctx, policy, func(ctx context.Context) ([]byte, error) {
		body, err := c.attempt(ctx, method, u, payload)
		if IsNotFound(err) {
			return nil, retry.Permanent(err)
		}
		return body, err
	})
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, u *url.URL, out any) error {
	body, err := c.Do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response from %s: %w", c.Name, u, err)
	}
	return nil
}

// attempt performs exactly one HTTP exchange.
func (c *Client) attempt(ctx context.Context, method string, u *url.URL, payload []byte) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "call-"+c.Name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", u.String()),
	)

	start := time.Now()
	body, status, err := c.exchange(ctx, method, u, payload)
	outcome := "error"
	if status != 0 {
		outcome = strconv.Itoa(status)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	c.metrics.ObserveOutbound(c.Name, method, outcome, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

func (c *Client) exchange(ctx context.Context, method string, u *url.URL, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Ensure correlation id propagated downstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %s %s: %w", c.Name, method, u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: read response from %s: %w", c.Name, u, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{
			Service:    c.Name,
			Method:     method,
			URL:        u.String(),
			StatusCode: resp.StatusCode,
		}
	}
	return body, resp.StatusCode, nil
}
