package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mikeboe/deep-researcher/pkg/config"
)

// FailureAnswer is returned to the caller when the terminal synthesis step
// fails. Internal failures never surface as errors from Run; the state
// carries the cause in its Err field instead.
const FailureAnswer = "An error occurred while processing your request."

// maxLoops bounds completed web-led evidence loops. Once the loop counter
// reaches this value the next reflection forces synthesis regardless of the
// reflection verdict.
const maxLoops = 2

// maxTransitions is a safety valve against a broken routing table; with four
// sources and the loop cap it can never be hit by a well-formed run.
const maxTransitions = 32

// Orchestrator drives the evidence-gathering state machine:
//
//	route -> {web, academic, video, social} -> reflect -> (route | summarize)
//
// A run is a single linear sequence of synchronous steps; the State is owned
// exclusively by the running call stack.
type Orchestrator struct {
	search        config.SearchConfig
	adapters      map[Source]Adapter
	reflector     Reflector
	synthesizer   Synthesizer
	searchTimeout time.Duration
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSearchTimeout bounds each provider call. A hanging provider otherwise
// stalls the whole run.
func WithSearchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.searchTimeout = d }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator wires the state machine to its collaborators. Adapters are
// keyed by their declared source; a source without an adapter renders an
// error string when routed to, like any other provider failure.
func NewOrchestrator(search config.SearchConfig, adapters []Adapter, reflector Reflector, synthesizer Synthesizer, opts ...Option) *Orchestrator {
	bySource := make(map[Source]Adapter, len(adapters))
	for _, a := range adapters {
		bySource[a.Source()] = a
	}
	o := &Orchestrator{
		search:        search,
		adapters:      bySource,
		reflector:     reflector,
		synthesizer:   synthesizer,
		searchTimeout: 30 * time.Second,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the state machine to completion and returns the final answer
// together with the full state, including the ordered evidence trace. It
// never returns an error: on terminal synthesis failure the answer is
// FailureAnswer and state.Err carries the cause.
func (o *Orchestrator) Run(ctx context.Context, question string) (string, State) {
	state := State{
		RunID:             uuid.New(),
		Question:          question,
		NeedsMoreEvidence: true,
		NextAction:        string(SourceWeb),
	}
	o.logger.Info("Starting research run", "run_id", state.RunID, "question", question)

	for i := 0; i < maxTransitions; i++ {
		next := route(state)
		if next == actionSummarize {
			state = o.summarize(ctx, state)
			if state.Err != "" {
				return FailureAnswer, state
			}
			return state.FinalAnswer, state
		}
		state = o.performSearch(ctx, state, Source(next))
		state = o.reflect(ctx, state)
	}

	state.Err = "transition budget exhausted"
	o.logger.Error("Research run exceeded transition budget", "run_id", state.RunID)
	return FailureAnswer, state
}

// route is the pure dispatch step: it maps the pending action to a search
// state, or to summarize when the action is unset or already "summarize". It
// never consults the enable flags, so the seeded initial web search always
// runs.
func route(state State) string {
	switch Source(state.NextAction) {
	case SourceWeb, SourceAcademic, SourceVideo, SourceSocial:
		return state.NextAction
	default:
		return actionSummarize
	}
}

// performSearch invokes the adapter for src, appends an evidence entry and
// clears NextAction so the router passes through reflection next. Provider
// failures are rendered as text and logged; they never abort the run.
func (o *Orchestrator) performSearch(ctx context.Context, state State, src Source) State {
	sctx, cancel := context.WithTimeout(ctx, o.searchTimeout)
	defer cancel()

	var raw string
	var err error
	if adapter, ok := o.adapters[src]; ok {
		raw, err = adapter.Search(sctx, state.Question)
	} else {
		err = fmt.Errorf("no adapter registered for source %q", src)
	}
	if err != nil {
		o.logger.Warn("Provider search failed", "source", src, "error", err)
		raw = fmt.Sprintf("Error searching %s sources: %v", src, err)
	}

	var rendered, narrative string
	var items []ResultItem
	switch src {
	case SourceAcademic:
		items = ParseAcademicResults(raw)
		rendered = RenderAcademic(items)
		narrative = "\n\n" + rendered
	case SourceVideo:
		items = ParseVideoResults(raw)
		rendered = RenderVideo(items)
		narrative = "\n\n" + rendered
	case SourceWeb:
		rendered = raw
		narrative = "\n\n## Web Search Results\n" + raw
	default:
		rendered = raw
		narrative = "\n\n" + raw
	}

	o.logger.Info("Search completed", "source", src, "items", len(items))

	next := state
	next.Evidence = append(next.Evidence, EvidenceEntry{
		Source:  src,
		Query:   state.Question,
		Results: rendered,
		Items:   items,
	})
	next.Narrative += narrative
	next.NextAction = ""
	return next
}

// reflect consults the reflection service and decides the next action. The
// loop counter is derived solely from the number of web entries: the first
// web search does not count as a completed loop. Note that with web disabled
// the counter stays at -1 and the hard cap cannot trigger from loop counting
// alone; the no-sources-enabled check below still guarantees termination.
func (o *Orchestrator) reflect(ctx context.Context, state State) State {
	commentary, err := o.reflector.Reflect(ctx, state.Question, state.Narrative)
	if err != nil {
		// A failed reflection must not end the run without an answer; treat
		// it as a verdict to stop gathering.
		o.logger.Warn("Reflection failed, proceeding to synthesis", "error", err)
		commentary = ""
	}

	needsMore := ParseContinuation(commentary)
	loops := countSource(state.Evidence, SourceWeb) - 1

	var next string
	switch {
	case loops >= maxLoops:
		needsMore = false
		next = actionSummarize
	case needsMore:
		next = o.nextSource(state.Evidence)
	default:
		next = actionSummarize
	}

	o.logger.Info("Reflection decision", "needs_more", needsMore, "loops_completed", loops, "next", next)

	out := state
	if commentary != "" {
		out.Narrative += "\n\n### Research Progress Analysis\n" + commentary + "\n"
	}
	out.NeedsMoreEvidence = needsMore
	out.NextAction = next
	return out
}

// nextSource picks the first enabled source not yet present in the log, in
// fixed priority order. "Used" means simple presence in the log, not
// loop-tagging. If every enabled source has been used, the sequence restarts
// at web; if no source is enabled at all, the run goes straight to synthesis.
func (o *Orchestrator) nextSource(evidence []EvidenceEntry) string {
	used := make(map[Source]bool, len(evidence))
	for _, e := range evidence {
		used[e.Source] = true
	}

	sequence := []struct {
		src     Source
		enabled bool
	}{
		{SourceWeb, o.search.WebEnabled},
		{SourceAcademic, o.search.AcademicEnabled},
		{SourceVideo, o.search.VideoEnabled},
		{SourceSocial, o.search.SocialEnabled},
	}

	anyEnabled := false
	for _, s := range sequence {
		if !s.enabled {
			continue
		}
		anyEnabled = true
		if !used[s.src] {
			return string(s.src)
		}
	}
	if anyEnabled {
		return string(SourceWeb)
	}
	return actionSummarize
}

// summarize concatenates the rendered results of every evidence entry (the
// reflection commentary is excluded) and asks the synthesis service for the
// final answer. Terminal: the only transition out is the end of the run.
func (o *Orchestrator) summarize(ctx context.Context, state State) State {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Analysis: %s\n\n", state.Question)
	for _, e := range state.Evidence {
		b.WriteString(e.Results)
		b.WriteString("\n\n")
	}

	out := state
	out.NeedsMoreEvidence = false
	out.NextAction = actionSummarize

	answer, err := o.synthesizer.Synthesize(ctx, state.Question, b.String())
	if err != nil {
		o.logger.Error("Synthesis failed", "run_id", state.RunID, "error", err)
		out.Err = err.Error()
		return out
	}

	out.FinalAnswer = answer
	out.Completed = true
	o.logger.Info("Research run completed", "run_id", state.RunID, "evidence_entries", len(out.Evidence))
	return out
}

func countSource(evidence []EvidenceEntry, src Source) int {
	n := 0
	for _, e := range evidence {
		if e.Source == src {
			n++
		}
	}
	return n
}
