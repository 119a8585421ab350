// Package search implements the provider adapters behind the research
// orchestrator: one per source class, each normalizing its provider's output
// to rendered text the orchestrator can log, parse and feed to synthesis.
package search

import (
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// newHTTPClient returns the shared client shape used by all adapters. Calls
// are single-attempt and best-effort; the orchestrator renders failures as
// text and moves on.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
