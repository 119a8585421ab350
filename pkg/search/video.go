package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mikeboe/deep-researcher/pkg/research"
)

// VideoAdapter scrapes the YouTube results page for video metadata and
// renders Title:/URL:/Description: records for the orchestrator's video
// parser. No API key is required.
type VideoAdapter struct {
	client     *http.Client
	maxResults int
}

func NewVideoAdapter(maxResults int) *VideoAdapter {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &VideoAdapter{client: newHTTPClient(), maxResults: maxResults}
}

func (a *VideoAdapter) Source() research.Source { return research.SourceVideo }

func (a *VideoAdapter) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("search_query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.youtube.com/results?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("video search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	items := parseVideoPage(string(body), a.maxResults)
	if len(items) == 0 {
		return "No relevant video results found.", nil
	}
	return renderVideoRecords(items), nil
}

// videoRendererPattern matches the videoId and title embedded in the initial
// data blob of the results page. The markup around them changes often; the
// JSON keys have been stable for years.
var videoRendererPattern = regexp.MustCompile(
	`"videoRenderer":\{"videoId":"([a-zA-Z0-9_-]{11})".{0,1000}?.{0,1000}?"title":\{"runs":\[\{"text":"((?:[^"\\]|\\.)*)"`)

func parseVideoPage(page string, limit int) []research.ResultItem {
	seen := make(map[string]bool)
	var items []research.ResultItem

	for _, m := range videoRendererPattern.FindAllStringSubmatch(page, -1) {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true

		title := strings.ReplaceAll(m[2], `\"`, `"`)
		title = strings.ReplaceAll(title, `\\`, `\`)
		if title == "" {
			continue
		}

		items = append(items, research.ResultItem{
			Title: title,
			URL:   "https://www.youtube.com/watch?v=" + id,
		})
		if len(items) >= limit {
			break
		}
	}
	return items
}

func renderVideoRecords(items []research.ResultItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "Title: %s\n", item.Title)
		fmt.Fprintf(&b, "URL: %s\n", item.URL)
		if item.Snippet != "" {
			fmt.Fprintf(&b, "Description: %s\n", item.Snippet)
		}
		b.WriteString("\n")
	}
	return b.String()
}
