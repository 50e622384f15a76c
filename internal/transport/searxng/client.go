// Package searxng adapts a SearxNG instance to the web SearchSource capability.
package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/searchlight-ai/searchlight/internal/domain"
	"github.com/searchlight-ai/searchlight/internal/metrics"
)

const metricSource = "web"

// Config holds the SearxNG connection settings.
type Config struct {
	BaseURL    string
	TimeoutSec int
	Logger     *zap.Logger
}

// Client queries the SearxNG JSON API.
type Client struct {
	base   string
	http   *http.Client
	logger *zap.Logger
}

// New creates a SearxNG search client.
func New(cfg *Config) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   cfg.BaseURL,
		http:   &http.Client{Timeout: timeout},
		logger: cfg.Logger,
	}
}

// searxResult mirrors one entry of the SearxNG JSON response.
type searxResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	ImgSrc  string `json:"img_src"`
}

type searxResponse struct {
	Results []searxResult `json:"results"`
}

// Search queries the instance for the category selected by opts.
// Capability contract: the query is truncated here, and any upstream failure
// degrades to an empty result (logged, never raised).
func (c *Client) Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResult, error) {
	query = domain.TruncateQuery(query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("categories", searxCategory(opts.Primary()))

	reqURL := c.base + "/search?" + params.Encode()

	start := time.Now()
	result, err := c.doSearch(ctx, reqURL)
	metrics.SearchRequestDuration.WithLabelValues(metricSource).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(metricSource, "error").Inc()
		c.logger.Warn("web search failed", zap.String("category", string(opts.Primary())), zap.Error(err))
		return domain.SearchResult{}, nil
	}

	metrics.SearchRequestsTotal.WithLabelValues(metricSource, "success").Inc()
	return result, nil
}

func (c *Client) doSearch(ctx context.Context, reqURL string) (domain.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SearchResult{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.SearchResult{}, fmt.Errorf("decode response: %w", err)
	}

	var result domain.SearchResult
	for _, r := range body.Results {
		if r.ImgSrc != "" {
			result.Images = append(result.Images, domain.ImageSource{
				Title:    r.Title,
				URL:      r.URL,
				ImageURL: r.ImgSrc,
			})
			continue
		}
		if r.Content == "" {
			continue
		}
		result.Texts = append(result.Texts, domain.TextSource{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
		})
	}
	return result, nil
}

// searxCategory maps a domain category to the SearxNG categories parameter.
func searxCategory(c domain.Category) string {
	switch c {
	case domain.CategoryImages:
		return "images"
	case domain.CategoryNews:
		return "news"
	case domain.CategoryAcademic:
		return "science"
	case domain.CategoryVideos:
		return "videos"
	default:
		return "general"
	}
}
