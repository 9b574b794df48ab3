// Package websearch searches the web through the DuckDuckGo HTML endpoint.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/logger"
)

const (
	defaultBaseURL    = "https://html.duckduckgo.com"
	defaultMaxResults = 5
	maxBodyBytes      = 1 << 20
)

// Result represents a single search result.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Client queries DuckDuckGo and aggregates the results into plain text.
type Client struct {
	client     *resty.Client
	maxResults int
}

var _ chenai.WebSearcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	}
}

// WithTimeout bounds each search request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.SetTimeout(d)
		}
	}
}

// WithMaxResults caps the number of results included in the answer text.
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// New returns a client with a 15 second timeout and at most 5 results.
func New(opts ...Option) *Client {
	c := &Client{
		client: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(15*time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
			SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
			SetHeader("Accept-Language", "en-US,en;q=0.5"),
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the aggregated text of the top results for query.
// No results is not an error: the text says so.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	results, err := c.Results(ctx, query)
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx).Debug("web search", "query", query, "results", len(results))
	if len(results) == 0 {
		return "No results found for: " + query, nil
	}
	return Format(results), nil
}

// Results performs the search and returns the parsed results.
func (c *Client) Results(ctx context.Context, query string) ([]Result, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetDoNotParseResponse(true).
		Get("/html/")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("search returned HTTP %s", resp.Status())
	}

	doc, err := html.Parse(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return parseResults(doc, c.maxResults), nil
}

// Format renders results as numbered plain text blocks.
func Format(results []Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Result %d] %s\n", i+1, r.Title)
		if r.Snippet != "" {
			sb.WriteString(r.Snippet)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Source: %s", sourceName(r.URL))
	}
	return sb.String()
}

// parseResults extracts search results from DuckDuckGo HTML.
func parseResults(doc *html.Node, maxResults int) []Result {
	var results []Result

	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if r := extractResult(n); r.URL != "" && r.Title != "" {
				results = append(results, r)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			findResults(child)
		}
	}
	findResults(doc)
	return results
}

// extractResult extracts a single search result from a result div.
func extractResult(n *html.Node) Result {
	var r Result

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a"):
				r.URL = attrValue(n, "href")
				r.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				r.Snippet = textContent(n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extract(child)
		}
	}
	extract(n)

	r.URL = resolveRedirect(r.URL)
	return r
}

// resolveRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links.
func resolveRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(u.Host, "duckduckgo.com") || u.Path != "/l/" {
		return raw
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return raw
}

func sourceName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attrValue(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
