package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mikeboe/deep-researcher/pkg/research"
)

// WebAdapter searches the general web through DuckDuckGo's lite HTML
// interface, which is stable enough to scrape without an API key.
type WebAdapter struct {
	client     *http.Client
	maxResults int
}

func NewWebAdapter(maxResults int) *WebAdapter {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebAdapter{client: newHTTPClient(), maxResults: maxResults}
}

func (a *WebAdapter) Source() research.Source { return research.SourceWeb }

func (a *WebAdapter) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query is empty")
	}

	formData := url.Values{}
	formData.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://lite.duckduckgo.com/lite/", strings.NewReader(formData.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	items := parseLiteHTML(string(body), a.maxResults)
	if len(items) == 0 {
		return "No web search results found.", nil
	}
	return renderWeb(items), nil
}

var (
	liteLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	liteLinkPatternAlt = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	liteSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+)</td>`)
)

// parseLiteHTML extracts result links and snippets from the DuckDuckGo lite
// page. Items without both title and URL are skipped.
func parseLiteHTML(page string, limit int) []research.ResultItem {
	matches := liteLinkPattern.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		matches = liteLinkPatternAlt.FindAllStringSubmatch(page, -1)
	}
	snippets := liteSnippetPattern.FindAllStringSubmatch(page, -1)

	var items []research.ResultItem
	for i, m := range matches {
		link := strings.TrimSpace(m[1])
		title := html.UnescapeString(strings.TrimSpace(m[2]))
		if link == "" && title == "" {
			continue
		}
		snippet := ""
		if i < len(snippets) {
			snippet = html.UnescapeString(strings.TrimSpace(snippets[i][1]))
		}
		items = append(items, research.ResultItem{Title: title, URL: link, Snippet: snippet})
		if len(items) >= limit {
			break
		}
	}
	return items
}

func renderWeb(items []research.ResultItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "### %s\n", item.Title)
		fmt.Fprintf(&b, "[%s](%s)\n", item.URL, item.URL)
		fmt.Fprintf(&b, "\n%s\n\n", item.Snippet)
	}
	return b.String()
}
