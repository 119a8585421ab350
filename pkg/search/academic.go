package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mikeboe/deep-researcher/pkg/research"
)

// AcademicAdapter queries the arXiv Atom API and renders the results in the
// Title:/URL:/Authors:/Published:/Abstract: record grammar the orchestrator's
// academic parser consumes.
type AcademicAdapter struct {
	client     *http.Client
	maxResults int
}

func NewAcademicAdapter(maxResults int) *AcademicAdapter {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &AcademicAdapter{client: newHTTPClient(), maxResults: maxResults}
}

func (a *AcademicAdapter) Source() research.Source { return research.SourceAcademic }

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

func (a *AcademicAdapter) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Add("search_query", query)
	params.Add("max_results", strconv.Itoa(a.maxResults))
	params.Add("start", "0")

	apiURL := "https://export.arxiv.org/api/query?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", fmt.Errorf("failed to unmarshal arxiv feed: %w", err)
	}

	if len(feed.Entries) == 0 {
		return "No academic search results found for query: " + query, nil
	}
	return renderArxivFeed(feed), nil
}

// renderArxivFeed emits one blank-line-delimited record per paper. The field
// prefixes form the contract with research.ParseAcademicResults.
func renderArxivFeed(feed arxivFeed) string {
	var b strings.Builder
	b.WriteString("### arXiv Papers\n\n")

	for _, entry := range feed.Entries {
		title := collapseWhitespace(entry.Title)
		abstract := collapseWhitespace(entry.Summary)
		if title == "" {
			continue
		}

		names := make([]string, 0, len(entry.Authors))
		for _, author := range entry.Authors {
			names = append(names, author.Name)
		}

		fmt.Fprintf(&b, "Title: %s\n", title)
		fmt.Fprintf(&b, "URL: %s\n", entry.link())
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(&b, "Published: %s\n", entry.Published)
		fmt.Fprintf(&b, "Abstract: %s\n\n", abstract)
	}

	return b.String()
}

// link prefers the abstract page, falling back to the PDF link.
func (e arxivEntry) link() string {
	if e.ID != "" {
		return e.ID
	}
	for _, l := range e.Links {
		if l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}

// collapseWhitespace flattens arXiv's hard-wrapped fields onto one line so
// the record grammar stays line-oriented.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
