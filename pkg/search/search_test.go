package search

import (
	"context"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/deep-researcher/pkg/research"
)

const litePage = `<html><body><table>
<tr><td><a rel="nofollow" href="https://go.dev/doc" class='result-link'>Go Documentation</a></td></tr>
<tr><td class='result-snippet'>Official documentation for the Go programming language.</td></tr>
<tr><td><a rel="nofollow" href="https://go.dev/blog" class='result-link'>The Go Blog</a></td></tr>
<tr><td class='result-snippet'>News and articles from the Go team.</td></tr>
<tr><td><a rel="nofollow" href="https://pkg.go.dev" class='result-link'>Go Packages</a></td></tr>
<tr><td class='result-snippet'>Package discovery &amp; docs.</td></tr>
</table></body></html>`

func TestParseLiteHTML(t *testing.T) {
	items := parseLiteHTML(litePage, 5)

	require.Len(t, items, 3)
	assert.Equal(t, "Go Documentation", items[0].Title)
	assert.Equal(t, "https://go.dev/doc", items[0].URL)
	assert.Equal(t, "Official documentation for the Go programming language.", items[0].Snippet)
	assert.Equal(t, "Package discovery & docs.", items[2].Snippet)
}

func TestParseLiteHTMLRespectsLimit(t *testing.T) {
	items := parseLiteHTML(litePage, 2)
	require.Len(t, items, 2)
	assert.Equal(t, "The Go Blog", items[1].Title)
}

func TestParseLiteHTMLEmptyPage(t *testing.T) {
	assert.Empty(t, parseLiteHTML("<html><body>no results</body></html>", 5))
}

const arxivAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
 You Need</title>
    <summary>  The dominant sequence transduction models are based on complex
 recurrent or convolutional neural networks.  </summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/pdf/1706.03762v7" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce a new language representation model called BERT.</summary>
    <published>2018-10-11T00:50:01Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

func TestRenderArxivFeedRoundTrips(t *testing.T) {
	// The rendered records must survive the orchestrator's academic parser.
	var feed arxivFeed
	require.NoError(t, xml.Unmarshal([]byte(arxivAtom), &feed))

	rendered := renderArxivFeed(feed)
	items := research.ParseAcademicResults(rendered)

	require.Len(t, items, 2)
	assert.Equal(t, "Attention Is All You Need", items[0].Title)
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", items[0].URL)
	assert.Equal(t, "Ashish Vaswani, Noam Shazeer", items[0].Authors)
	assert.Equal(t, "2017-06-12T17:57:34Z", items[0].Published)
	assert.Contains(t, items[0].Snippet, "sequence transduction models")
	assert.NotContains(t, items[0].Snippet, "\n")
	assert.Equal(t, "Jacob Devlin", items[1].Authors)
}

func TestArxivEntryLinkFallsBackToPDF(t *testing.T) {
	entry := arxivEntry{Links: []arxivLink{
		{Href: "http://arxiv.org/abs/x", Type: "text/html"},
		{Href: "http://arxiv.org/pdf/x", Type: "application/pdf"},
	}}
	assert.Equal(t, "http://arxiv.org/pdf/x", entry.link())
}

const videoPage = `{"contents":[{"videoRenderer":{"videoId":"dQw4w9WgXcQ","thumbnail":{},"title":{"runs":[{"text":"Go Concurrency Patterns"}]}}},{"videoRenderer":{"videoId":"f6kdp27TYZs","thumbnail":{},"title":{"runs":[{"text":"Advanced Go \"Tips\""}]}}},{"videoRenderer":{"videoId":"dQw4w9WgXcQ","title":{"runs":[{"text":"Duplicate Entry"}]}}}]}`

func TestParseVideoPage(t *testing.T) {
	items := parseVideoPage(videoPage, 5)

	require.Len(t, items, 2)
	assert.Equal(t, "Go Concurrency Patterns", items[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", items[0].URL)
	assert.Equal(t, `Advanced Go "Tips"`, items[1].Title)
}

func TestVideoRecordsRoundTrip(t *testing.T) {
	items := parseVideoPage(videoPage, 5)
	parsed := research.ParseVideoResults(renderVideoRecords(items))

	require.Len(t, parsed, 2)
	assert.Equal(t, items[0].Title, parsed[0].Title)
	assert.Equal(t, items[0].URL, parsed[0].URL)
}

func TestSocialAdapterUnconfigured(t *testing.T) {
	adapter := NewSocialAdapter("", 10)

	out, err := adapter.Search(context.Background(), "golang")

	require.NoError(t, err)
	assert.Contains(t, out, "Twitter API is not configured")
}

func TestRenderTweets(t *testing.T) {
	resp := tweetSearchResponse{}
	resp.Data = []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
	}{
		{ID: "1", Text: "first line\nsecond line", AuthorID: "u1", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "2", Text: "another post", AuthorID: "u2", CreatedAt: "2024-01-02T00:00:00Z"},
	}
	resp.Includes.Users = []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}{
		{ID: "u1", Username: "gopher"},
	}

	out := renderTweets(resp)

	assert.Contains(t, out, "1. Tweet by @gopher")
	assert.Contains(t, out, "Content: first line second line")
	assert.Contains(t, out, "Link: https://twitter.com/gopher/status/1")
	assert.Contains(t, out, "2. Tweet by @unknown")
}
