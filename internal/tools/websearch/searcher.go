package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"research-crew/internal/common/config"
	commonerrors "research-crew/internal/common/errors"
	commonhttp "research-crew/internal/common/http"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher runs a free-text query against a search backend.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// HTTPSearcher queries a JSON search API taking key, cx, q and num parameters
// and answering with an items array.
type HTTPSearcher struct {
	baseURL    string
	apiKey     string
	engineID   string
	maxResults int
	client     *commonhttp.Client
}

func NewHTTPSearcher(cfg config.WebSearchConfig) (*HTTPSearcher, error) {
	if cfg.APIKey == "" || cfg.EngineID == "" || cfg.BaseURL == "" {
		return nil, commonerrors.NewSearchNotConfiguredError()
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}
	return &HTTPSearcher{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		maxResults: cfg.MaxResults,
		client:     commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
	}, nil
}

func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.buildSearchURL(query), nil)
	if err != nil {
		return nil, commonerrors.NewSearchFailedError(query, err)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, commonerrors.NewSearchTimeoutError(query)
		}
		return nil, commonerrors.NewSearchFailedError(query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, commonerrors.NewSearchFailedError(query, fmt.Errorf("search API returned %d", resp.StatusCode))
	}

	var apiResponse struct {
		Items []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Mime    string `json:"mime"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, commonerrors.NewSearchFailedError(query, fmt.Errorf("decode response: %w", err))
	}

	seen := make(map[string]bool)
	results := make([]Result, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		// skip non-HTML documents
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		results = append(results, Result{
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Snippet: strings.TrimSpace(item.Snippet),
		})
		if s.maxResults > 0 && len(results) == s.maxResults {
			break
		}
	}
	return results, nil
}

func (s *HTTPSearcher) buildSearchURL(query string) string {
	baseURL, _ := url.Parse(s.baseURL)
	params := url.Values{}
	params.Add("key", s.apiKey)
	params.Add("cx", s.engineID)
	params.Add("q", query)
	params.Add("num", strconv.Itoa(s.maxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type unavailableSearcher struct{ err error }

func (u unavailableSearcher) Search(context.Context, string) ([]Result, error) {
	return nil, u.err
}

// Unavailable returns a Searcher that always fails with err. It stands in for
// a backend that is not configured so the research stage records the failure.
func Unavailable(err error) Searcher {
	return unavailableSearcher{err: err}
}
