// Package tibber is a client for the Tibber energy-data API. Queries go
// over HTTPS to the GraphQL endpoint with bearer-token authentication;
// live measurements come from the subscription endpoint (see
// realtime.go). Calls either return fully-parsed records or an error,
// never a partially-decoded response, and nothing is retried or cached.
package tibber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultUserAgent = "tibber-mcp/0.1.0"

// API is the surface the tool handlers program against.
type API interface {
	// Homes lists every home visible to the access token.
	Homes(ctx context.Context) ([]Home, error)

	// Home fetches a single home by id. Returns ErrNotFound for ids
	// the account does not own.
	Home(ctx context.Context, id string) (*Home, error)

	// Consumption returns consumption buckets for a home, in upstream
	// (time-ascending) order.
	Consumption(ctx context.Context, q SeriesQuery) ([]ConsumptionRecord, error)

	// Production returns production buckets for a home, in upstream
	// (time-ascending) order.
	Production(ctx context.Context, q SeriesQuery) ([]ProductionRecord, error)

	// PriceInfo returns the current price snapshot for a home. Tomorrow
	// is empty until published; that is not an error.
	PriceInfo(ctx context.Context, homeID string) (*PriceInfo, error)

	// LiveMeasurement returns the first reading from the home's live
	// measurement stream.
	LiveMeasurement(ctx context.Context, homeID string) (*LiveMeasurement, error)
}

// SeriesQuery selects a slice of historic consumption or production
// data. With a zero StartAt the most recent Count buckets are returned;
// otherwise Count buckets starting after StartAt.
type SeriesQuery struct {
	HomeID     string
	Resolution Resolution
	Count      int
	StartAt    time.Time
}

// Client talks to the Tibber API. It is safe for sequential reuse; the
// only state it carries is the configured endpoints and token.
type Client struct {
	httpClient *http.Client
	apiURL     string
	wsURL      string
	token      string
	userAgent  string
	timeout    time.Duration
	logger     *slog.Logger
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithEndpoints overrides the query and subscription endpoints.
func WithEndpoints(apiURL, wsURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
		c.wsURL = wsURL
	}
}

// WithTimeout bounds every upstream call, including the realtime read.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the given access token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		apiURL:    "https://api.tibber.com/v1-beta/gql",
		wsURL:     "wss://websocket-api.tibber.com/v1-beta/gql/subscriptions",
		token:     token,
		userAgent: defaultUserAgent,
		timeout:   30 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query posts one GraphQL document and decodes the data payload into
// out. Either the whole response parses or an error comes back.
func (c *Client) query(ctx context.Context, document string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: document, Variables: vars})
	if err != nil {
		return fmt.Errorf("tibber: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("tibber: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tibber: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	default:
		return fmt.Errorf("tibber: unexpected status %d", resp.StatusCode)
	}

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(envelope.Errors) > 0 {
		return upstreamError(envelope.Errors)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: response carried no data", ErrMalformed)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// upstreamError maps GraphQL error objects onto the client's error
// conditions. An UNAUTHENTICATED extension code means the token was
// rejected after the transport-level auth succeeded.
func upstreamError(errs []graphQLError) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Extensions.Code == "UNAUTHENTICATED" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, e.Message)
		}
		messages = append(messages, e.Message)
	}
	return fmt.Errorf("tibber: upstream error: %s", strings.Join(messages, "; "))
}

func (c *Client) Homes(ctx context.Context) ([]Home, error) {
	var out struct {
		Viewer struct {
			Homes []Home `json:"homes"`
		} `json:"viewer"`
	}
	if err := c.query(ctx, homesQuery, nil, &out); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched homes", "count", len(out.Viewer.Homes))
	return out.Viewer.Homes, nil
}

func (c *Client) Home(ctx context.Context, id string) (*Home, error) {
	var out struct {
		Viewer struct {
			Home *Home `json:"home"`
		} `json:"viewer"`
	}
	if err := c.query(ctx, homeQuery, map[string]any{"homeId": id}, &out); err != nil {
		return nil, err
	}
	if out.Viewer.Home == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return out.Viewer.Home, nil
}

// seriesVariables builds the query variables shared by consumption and
// production lookups.
func seriesVariables(q SeriesQuery) (document map[string]any, paged bool) {
	vars := map[string]any{
		"homeId":     q.HomeID,
		"resolution": string(q.Resolution),
	}
	if q.StartAt.IsZero() {
		vars["last"] = q.Count
		return vars, false
	}
	vars["first"] = q.Count
	vars["after"] = historyCursor(q.StartAt)
	return vars, true
}

type connection[T any] struct {
	Nodes []T `json:"nodes"`
}

func (c *Client) Consumption(ctx context.Context, q SeriesQuery) ([]ConsumptionRecord, error) {
	document := consumptionQuery
	vars, paged := seriesVariables(q)
	if paged {
		document = consumptionAfterQuery
	}

	var out struct {
		Viewer struct {
			Home *struct {
				Consumption *connection[ConsumptionRecord] `json:"consumption"`
			} `json:"home"`
		} `json:"viewer"`
	}
	if err := c.query(ctx, document, vars, &out); err != nil {
		return nil, err
	}
	if out.Viewer.Home == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, q.HomeID)
	}
	if out.Viewer.Home.Consumption == nil {
		return nil, nil
	}
	return out.Viewer.Home.Consumption.Nodes, nil
}

func (c *Client) Production(ctx context.Context, q SeriesQuery) ([]ProductionRecord, error) {
	document := productionQuery
	vars, paged := seriesVariables(q)
	if paged {
		document = productionAfterQuery
	}

	var out struct {
		Viewer struct {
			Home *struct {
				Production *connection[ProductionRecord] `json:"production"`
			} `json:"home"`
		} `json:"viewer"`
	}
	if err := c.query(ctx, document, vars, &out); err != nil {
		return nil, err
	}
	if out.Viewer.Home == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, q.HomeID)
	}
	if out.Viewer.Home.Production == nil {
		return nil, nil
	}
	return out.Viewer.Home.Production.Nodes, nil
}

func (c *Client) PriceInfo(ctx context.Context, homeID string) (*PriceInfo, error) {
	var out struct {
		Viewer struct {
			Home *struct {
				CurrentSubscription *struct {
					PriceInfo *PriceInfo `json:"priceInfo"`
				} `json:"currentSubscription"`
			} `json:"home"`
		} `json:"viewer"`
	}
	if err := c.query(ctx, priceInfoQuery, map[string]any{"homeId": homeID}, &out); err != nil {
		return nil, err
	}
	if out.Viewer.Home == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, homeID)
	}

	// A home without an active subscription has no prices; that is a
	// normal empty result.
	info := &PriceInfo{}
	if sub := out.Viewer.Home.CurrentSubscription; sub != nil && sub.PriceInfo != nil {
		info = sub.PriceInfo
	}
	if info.Today == nil {
		info.Today = []PricePoint{}
	}
	if info.Tomorrow == nil {
		info.Tomorrow = []PricePoint{}
	}
	return info, nil
}
