// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv Atom API and returns raw paper
// metadata, ranked by the API's own relevance ordering.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/research-collector/internal/httputil"
	"github.com/pdiddy/research-collector/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// SourceName is the fixed label attached to every record this client
// returns.
const SourceName = "arxiv"

// Client queries the arXiv API. A rate limiter spaces out requests per
// arXiv's usage policy.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        types.CollectConfig
}

// NewClient builds an arXiv client from config. A zero RequestsPerSecond
// defaults to one request every two seconds.
func NewClient(cfg types.CollectConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 0.5
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cfg:        cfg,
	}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return SourceName }

// Search queries arXiv for papers matching topic, bounded to limit
// results and sorted by the API's relevance ranking. Fields pass through
// unnormalized; cleaning is the caller's concern.
func (c *Client) Search(ctx context.Context, topic string, limit int) ([]types.RawPaper, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("empty search topic")
	}
	if limit <= 0 {
		limit = 10
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("search_query", buildQuery(topic))
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", limit))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.RawPaper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, entry.toRawPaper())
	}
	return papers, nil
}

// buildQuery constructs the search_query parameter from free text
// (e.g. "quantum computing" -> "all:quantum+computing").
func buildQuery(topic string) string {
	return "all:" + strings.Join(strings.Fields(topic), "+")
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string         `xml:"id"`
	Title           string         `xml:"title"`
	Summary         string         `xml:"summary"`
	Published       string         `xml:"published"`
	Authors         []atomAuthor   `xml:"author"`
	Links           []atomLink     `xml:"link"`
	Categories      []atomCategory `xml:"category"`
	PrimaryCategory atomCategory   `xml:"primary_category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

func (e atomEntry) toRawPaper() types.RawPaper {
	raw := types.RawPaper{
		PaperID:         extractID(e.ID),
		Title:           e.Title,
		Abstract:        e.Summary,
		Published:       e.Published,
		PDFURL:          e.pdfURL(),
		PrimaryCategory: e.PrimaryCategory.Term,
		Source:          SourceName,
	}
	for _, a := range e.Authors {
		raw.Authors = append(raw.Authors, a.Name)
	}
	for _, c := range e.Categories {
		raw.Categories = append(raw.Categories, c.Term)
	}
	if raw.PrimaryCategory == "" && len(raw.Categories) > 0 {
		raw.PrimaryCategory = raw.Categories[0]
	}
	return raw
}

// pdfURL returns the entry's PDF link, or falls back to rewriting the
// abstract URL.
func (e atomEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return ""
}

// extractID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
func extractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}
