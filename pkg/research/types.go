package research

import (
	"context"

	"github.com/google/uuid"
)

// Source identifies the class of provider an evidence entry came from.
type Source string

const (
	SourceWeb      Source = "web"
	SourceAcademic Source = "academic"
	SourceVideo    Source = "video"
	SourceSocial   Source = "social"
)

// actionSummarize is the routing target that leaves evidence gathering and
// enters synthesis. All other actions are Source values.
const actionSummarize = "summarize"

// ResultItem is a normalized record extracted from a provider's rendered
// output. Title and URL are the minimum useful payload; items missing both
// are discarded before logging.
type ResultItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Snippet   string `json:"snippet"`
	Authors   string `json:"authors,omitempty"`
	Published string `json:"published,omitempty"`
}

// EvidenceEntry is one completed provider call. Entries are append-only and
// their order defines the transcript fed to synthesis.
type EvidenceEntry struct {
	Source  Source       `json:"source"`
	Query   string       `json:"query"`
	Results string       `json:"results"`
	Items   []ResultItem `json:"items,omitempty"`
}

// State is the workflow record threaded through every transition. Transitions
// take a State by value and return a new one; a run never mutates a State it
// has already handed out.
//
// NextAction is a Source name, "summarize", or empty; empty means the machine
// is awaiting a reflection decision. FinalAnswer is set exactly once, by the
// terminal summarize transition.
type State struct {
	RunID             uuid.UUID       `json:"run_id"`
	Question          string          `json:"question"`
	Evidence          []EvidenceEntry `json:"evidence"`
	Narrative         string          `json:"narrative"`
	NeedsMoreEvidence bool            `json:"needs_more_evidence"`
	NextAction        string          `json:"next_action,omitempty"`
	FinalAnswer       string          `json:"final_answer,omitempty"`
	Completed         bool            `json:"completed"`
	Err               string          `json:"error,omitempty"`
}

// Adapter is the capability contract a provider must offer. Search returns
// rendered result text; an error is captured by the orchestrator as if it
// were result text, so a failing provider never aborts a run.
type Adapter interface {
	Source() Source
	Search(ctx context.Context, query string) (string, error)
}

// Reflector judges whether the gathered findings suffice. The returned
// commentary is free text carrying the continuation marker (see
// ParseContinuation).
type Reflector interface {
	Reflect(ctx context.Context, question, findings string) (string, error)
}

// Synthesizer produces the final narrative answer from the full evidence
// transcript.
type Synthesizer interface {
	Synthesize(ctx context.Context, question, findings string) (string, error)
}
