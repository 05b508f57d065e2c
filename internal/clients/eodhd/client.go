// Package eodhd resolves exchange rates from the EODHD real-time FOREX API.
package eodhd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "NA" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second

	// maxBatch caps the tickers sent in one real-time request.
	maxBatch = 20
)

// Client implements interfaces.ExchangeRateProvider
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

var _ interfaces.ExchangeRateProvider = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// forexQuote is one element of a real-time response.
type forexQuote struct {
	Code      string      `json:"code"`
	Timestamp int64       `json:"timestamp"`
	Close     flexFloat64 `json:"close"`
	Previous  flexFloat64 `json:"previousClose"`
}

// quotes decodes a real-time response, which is a single object for one
// ticker and an array when extra tickers are passed in "s".
type quotes []forexQuote

func (q *quotes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []forexQuote
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*q = list
		return nil
	}
	var one forexQuote
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*q = quotes{one}
	return nil
}

// ForexTicker is the EODHD symbol quoting one unit of currency in base.
func ForexTicker(currency, base string) string {
	return strings.ToUpper(currency) + strings.ToUpper(base) + ".FOREX"
}

// GetRates fetches the latest rate into base for every currency, batching
// tickers into as few requests as possible. A currency with no usable close
// fails the call with *models.MissingRateError; a failed request names every
// currency in its batch.
func (c *Client) GetRates(ctx context.Context, base string, currencies []string) (models.RateTable, error) {
	base = strings.ToUpper(base)
	table := models.NewRateTable(base)

	var wanted []string
	seen := make(map[string]bool)
	for _, cur := range currencies {
		cur = strings.ToUpper(strings.TrimSpace(cur))
		if cur == "" || cur == base || seen[cur] {
			continue
		}
		seen[cur] = true
		wanted = append(wanted, cur)
	}
	if len(wanted) == 0 {
		return table, nil
	}

	closes := make(map[string]float64, len(wanted))
	for start := 0; start < len(wanted); start += maxBatch {
		end := min(start+maxBatch, len(wanted))
		batch := wanted[start:end]

		tickers := make([]string, len(batch))
		for i, cur := range batch {
			tickers[i] = ForexTicker(cur, base)
		}

		params := url.Values{}
		if len(tickers) > 1 {
			params.Set("s", strings.Join(tickers[1:], ","))
		}

		var resp quotes
		if err := c.get(ctx, "/real-time/"+tickers[0], params, &resp); err != nil {
			return models.RateTable{}, &models.MissingRateError{Currency: strings.Join(batch, ","), Err: err}
		}
		for _, q := range resp {
			fx := float64(q.Close)
			if fx <= 0 {
				fx = float64(q.Previous)
			}
			closes[strings.ToUpper(q.Code)] = fx
		}
	}

	for _, cur := range wanted {
		fx := closes[ForexTicker(cur, base)]
		if fx <= 0 {
			c.logger.Warn().Str("currency", cur).Str("base", base).Msg("No FOREX quote for currency")
			return models.RateTable{}, &models.MissingRateError{Currency: cur}
		}
		table.Set(cur, fx)
	}

	c.logger.Debug().Str("base", base).Int("currencies", len(wanted)).Msg("Exchange rates fetched")
	return table, nil
}
