// Package catalog is an HTTP client for the semantic product-search
// service. The service owns the embedding model and vector index; this
// client only speaks its query contract.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultTimeout = 15 * time.Second

// Hit is one ranked search result. Price is nil for products scraped
// without a price.
type Hit struct {
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	Unit            string   `json:"unit"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	SubSubcategory  string   `json:"sub_subcategory,omitempty"`
	URL             string   `json:"url"`
	ProductID       string   `json:"product_id"`
	Distance        float64  `json:"distance"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// Stats describes the indexed collection.
type Stats struct {
	Collection     string `json:"collection"`
	ProductCount   int    `json:"product_count"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

// Client queries the product-search service.
type Client interface {
	Search(ctx context.Context, query string, topK int, category string) ([]Hit, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit throttles outbound queries to the search service.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a search service client.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, topK int, category string) ([]Hit, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "catalog: rate limit wait")
		}
	}

	q := url.Values{}
	q.Set("q", query)
	if topK > 0 {
		q.Set("top_k", strconv.Itoa(topK))
	}
	if category != "" {
		q.Set("category", category)
	}

	var hits []Hit
	if err := c.getJSON(ctx, "/search?"+q.Encode(), &hits); err != nil {
		return nil, err
	}

	for i := range hits {
		// Stable monotonic mapping 1/(1+d) ∈ (0, 1] when the service
		// reports only a raw distance.
		if hits[i].ConfidenceScore == 0 && hits[i].Distance > 0 {
			hits[i].ConfidenceScore = 1.0 / (1.0 + hits[i].Distance)
		}
	}
	return hits, nil
}

func (c *httpClient) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "catalog: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "catalog: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "catalog: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("catalog: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "catalog: unmarshal response")
	}
	return nil
}
