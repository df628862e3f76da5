package googlefonts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultAPIURL is the Web Fonts API endpoint.
const DefaultAPIURL = "https://www.googleapis.com/webfonts/v1/webfonts"

// ErrMissingAPIKey is returned when a fetch is attempted without a key.
var ErrMissingAPIKey = errors.New("googlefonts: api key is not configured")

// Client fetches the font catalogue.
type Client struct {
	http   *http.Client
	apiURL string
	apiKey string
	fields []string
	sort   string
	log    *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client. The default times out after 15s.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithAPIURL overrides the endpoint.
func WithAPIURL(u string) ClientOption {
	return func(cl *Client) {
		if u != "" {
			cl.apiURL = u
		}
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ClientOption {
	return func(cl *Client) {
		cl.apiKey = key
	}
}

// WithFields selects the item fields requested from the API.
func WithFields(fields ...string) ClientOption {
	return func(cl *Client) {
		if len(fields) > 0 {
			cl.fields = append([]string(nil), fields...)
		}
	}
}

// WithSort sets the API sort order.
func WithSort(order string) ClientOption {
	return func(cl *Client) {
		if order != "" {
			cl.sort = order
		}
	}
}

// WithClientLogger sets the client logger.
func WithClientLogger(log *zap.Logger) ClientOption {
	return func(cl *Client) {
		if log != nil {
			cl.log = log
		}
	}
}

// NewClient builds a client requesting family, variants and subsets sorted
// alphabetically.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:   &http.Client{Timeout: 15 * time.Second},
		apiURL: DefaultAPIURL,
		fields: []string{"family", "variants", "subsets"},
		sort:   "alpha",
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.log = c.log.Named("googlefonts")
	return c
}

// HasKey reports whether the client can fetch.
func (c *Client) HasKey() bool {
	return c != nil && c.apiKey != ""
}

// RequestURL returns the catalogue query URL.
func (c *Client) RequestURL() (string, error) {
	base, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("googlefonts: api url: %w", err)
	}
	query := base.Query()
	query.Set("key", c.apiKey)
	query.Set("fields", "items("+strings.Join(c.fields, ",")+")")
	query.Set("sort", c.sort)
	base.RawQuery = query.Encode()
	return base.String(), nil
}

type response struct {
	Items []Font `json:"items"`
}

// Fetch downloads the catalogue. Any status other than 200 is an error.
func (c *Client) Fetch(ctx context.Context) (Catalog, error) {
	if !c.HasKey() {
		return nil, ErrMissingAPIKey
	}
	target, err := c.RequestURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("googlefonts: build request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googlefonts: fetch catalogue: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("googlefonts: fetch catalogue: unexpected status %d", res.StatusCode)
	}
	var body response
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("googlefonts: decode catalogue: %w", err)
	}
	catalog := NewCatalog(body.Items)
	c.log.Debug("catalogue fetched", zap.Int("fonts", len(catalog)))
	return catalog, nil
}
