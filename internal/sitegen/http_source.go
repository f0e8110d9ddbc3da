package sitegen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ranganmag-api/internal/models"
)

// HTTPSource reads articles from a running API server
type HTTPSource struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns a source for the API at baseURL
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type listResponse struct {
	Success bool             `json:"success"`
	Data    []models.Article `json:"data"`
	Error   string           `json:"error"`
}

// List fetches GET <base>/articles with the filter as query parameters
func (s *HTTPSource) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Featured != "" {
		q.Set("featured", filter.Featured)
	}
	if filter.Limit != "" {
		q.Set("limit", filter.Limit)
	}

	endpoint := s.BaseURL + "/articles"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	defer resp.Body.Close()

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode articles response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		msg := body.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("fetch articles: %s (status %d)", msg, resp.StatusCode)
	}
	return body.Data, nil
}
