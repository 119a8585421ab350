package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mikeboe/deep-researcher/pkg/research"
)

// SocialAdapter queries the Twitter v2 recent search API. Without a bearer
// token the adapter stays usable: it reports the missing configuration as
// result text so a run logs it instead of failing.
type SocialAdapter struct {
	client      *http.Client
	bearerToken string
	maxResults  int
}

func NewSocialAdapter(bearerToken string, maxResults int) *SocialAdapter {
	if maxResults < 10 {
		// The v2 recent search endpoint rejects max_results below 10.
		maxResults = 10
	}
	return &SocialAdapter{
		client:      newHTTPClient(),
		bearerToken: bearerToken,
		maxResults:  maxResults,
	}
}

func (a *SocialAdapter) Source() research.Source { return research.SourceSocial }

type tweetSearchResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

func (a *SocialAdapter) Search(ctx context.Context, query string) (string, error) {
	if a.bearerToken == "" {
		return "Twitter API is not configured. Set TWITTER_BEARER_TOKEN to enable social media search.", nil
	}

	params := url.Values{}
	params.Set("query", query+" -is:retweet lang:en")
	params.Set("max_results", strconv.Itoa(a.maxResults))
	params.Set("tweet.fields", "created_at,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.twitter.com/2/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.bearerToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("social search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("social search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed tweetSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal social response: %w", err)
	}

	if len(parsed.Data) == 0 {
		return "No recent social media posts found for this query.", nil
	}
	return renderTweets(parsed), nil
}

func renderTweets(resp tweetSearchResponse) string {
	usernames := make(map[string]string, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		usernames[u.ID] = u.Username
	}

	var b strings.Builder
	b.WriteString("Social Media Results:\n\n")
	for i, tweet := range resp.Data {
		author := usernames[tweet.AuthorID]
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(&b, "%d. Tweet by @%s\n", i+1, author)
		fmt.Fprintf(&b, "   Posted on: %s\n", tweet.CreatedAt)
		fmt.Fprintf(&b, "   Content: %s\n", strings.ReplaceAll(tweet.Text, "\n", " "))
		fmt.Fprintf(&b, "   Link: https://twitter.com/%s/status/%s\n\n", author, tweet.ID)
	}
	return b.String()
}
