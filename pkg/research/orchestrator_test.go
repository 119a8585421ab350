package research

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/deep-researcher/pkg/config"
)

type stubAdapter struct {
	src    Source
	result string
	err    error
	calls  int
}

func (s *stubAdapter) Source() Source { return s.src }

func (s *stubAdapter) Search(ctx context.Context, query string) (string, error) {
	s.calls++
	return s.result, s.err
}

type stubReflector struct {
	commentary string
	err        error
}

func (s *stubReflector) Reflect(ctx context.Context, question, findings string) (string, error) {
	return s.commentary, s.err
}

type stubSynthesizer struct {
	answer      string
	err         error
	gotFindings string
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, question, findings string) (string, error) {
	s.gotFindings = findings
	return s.answer, s.err
}

func allEnabled() config.SearchConfig {
	return config.SearchConfig{
		WebEnabled:      true,
		AcademicEnabled: true,
		VideoEnabled:    true,
		SocialEnabled:   true,
	}
}

func defaultAdapters() []Adapter {
	return []Adapter{
		&stubAdapter{src: SourceWeb, result: "### A Web Result\n[https://example.org](https://example.org)\n\nsome snippet\n"},
		&stubAdapter{src: SourceAcademic, result: academicFixture},
		&stubAdapter{src: SourceVideo, result: "Title: Clip\nURL: https://www.youtube.com/watch?v=abc\nDescription: d\n"},
		&stubAdapter{src: SourceSocial, result: "Social Media Results:\n\n1. Post by @someone\n"},
	}
}

func sourcesOf(evidence []EvidenceEntry) []Source {
	out := make([]Source, 0, len(evidence))
	for _, e := range evidence {
		out = append(out, e.Source)
	}
	return out
}

func TestRunStopsWhenReflectionSaysNo(t *testing.T) {
	synth := &stubSynthesizer{answer: "final analysis"}
	o := NewOrchestrator(allEnabled(), defaultAdapters(),
		&stubReflector{commentary: "Looks sufficient.\nFURTHER_RESEARCH_NEEDED: No"}, synth)

	answer, state := o.Run(context.Background(), "What is Go?")

	assert.Equal(t, "final analysis", answer)
	assert.True(t, state.Completed)
	assert.False(t, state.NeedsMoreEvidence)
	assert.Equal(t, "final analysis", state.FinalAnswer)
	assert.Equal(t, []Source{SourceWeb}, sourcesOf(state.Evidence))
}

func TestRunHardCapBoundsWebSearches(t *testing.T) {
	// A reflector that always asks for more evidence must still terminate
	// through the loop cap, with at most three web entries in the trace.
	synth := &stubSynthesizer{answer: "done"}
	o := NewOrchestrator(allEnabled(), defaultAdapters(),
		&stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: Yes"}, synth)

	answer, state := o.Run(context.Background(), "endless topic")

	require.True(t, state.Completed)
	assert.Equal(t, "done", answer)
	assert.Equal(t,
		[]Source{SourceWeb, SourceAcademic, SourceVideo, SourceSocial, SourceWeb, SourceWeb},
		sourcesOf(state.Evidence))
	assert.Equal(t, 3, countSource(state.Evidence, SourceWeb))
	assert.False(t, state.NeedsMoreEvidence)
}

func TestRunSeededWebAlwaysRuns(t *testing.T) {
	// The router never consults the enable flags, so the seeded initial web
	// call runs even with every source disabled; the first reflection then
	// routes straight to summarize because nothing is enabled.
	web := &stubAdapter{src: SourceWeb, result: "web text"}
	synth := &stubSynthesizer{answer: "answer"}
	o := NewOrchestrator(config.SearchConfig{}, []Adapter{web},
		&stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: Yes"}, synth)

	_, state := o.Run(context.Background(), "Q")

	assert.Equal(t, 1, web.calls)
	assert.Equal(t, []Source{SourceWeb}, sourcesOf(state.Evidence))
	assert.True(t, state.Completed)
}

func TestRunWebDisabledStillTerminates(t *testing.T) {
	// The loop counter is derived only from web entries, so with web disabled
	// it can only advance through the restart-at-web path. An always-continue
	// reflector must still hit the cap: seeded web, then academic, then two
	// restart web searches before the forced summarize.
	synth := &stubSynthesizer{answer: "done"}
	cfg := config.SearchConfig{AcademicEnabled: true}
	o := NewOrchestrator(cfg, defaultAdapters(),
		&stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: Yes"}, synth)

	answer, state := o.Run(context.Background(), "Q")

	require.True(t, state.Completed)
	assert.Equal(t, "done", answer)
	assert.Equal(t,
		[]Source{SourceWeb, SourceAcademic, SourceWeb, SourceWeb},
		sourcesOf(state.Evidence))
	assert.Equal(t, 3, countSource(state.Evidence, SourceWeb))
}

func TestRunProviderFailureDoesNotAbort(t *testing.T) {
	adapters := []Adapter{
		&stubAdapter{src: SourceWeb, err: errors.New("connection refused")},
	}
	synth := &stubSynthesizer{answer: "answer"}
	o := NewOrchestrator(allEnabled(), adapters,
		&stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: No"}, synth)

	answer, state := o.Run(context.Background(), "Q")

	assert.Equal(t, "answer", answer)
	require.Len(t, state.Evidence, 1)
	assert.Contains(t, state.Evidence[0].Results, "connection refused")
	assert.True(t, state.Completed)
}

func TestRunMissingAdapterRendersError(t *testing.T) {
	// Academic is enabled but has no adapter; the run records the failure as
	// evidence and keeps going.
	synth := &stubSynthesizer{answer: "answer"}
	reflector := &stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: Yes"}
	adapters := []Adapter{&stubAdapter{src: SourceWeb, result: "web text"}}
	cfg := config.SearchConfig{WebEnabled: true, AcademicEnabled: true}

	orch := NewOrchestrator(cfg, adapters, reflector, synth)
	_, state := orch.Run(context.Background(), "Q")

	require.True(t, len(state.Evidence) >= 2)
	assert.Equal(t, SourceAcademic, state.Evidence[1].Source)
	assert.True(t, state.Completed)
}

func TestRunSynthesisFailureReturnsSentinel(t *testing.T) {
	synth := &stubSynthesizer{err: errors.New("model unreachable")}
	orch := NewOrchestrator(allEnabled(), defaultAdapters(),
		&stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: No"}, synth)

	answer, state := orch.Run(context.Background(), "Q")

	assert.Equal(t, FailureAnswer, answer)
	assert.False(t, state.Completed)
	assert.Empty(t, state.FinalAnswer)
	assert.Contains(t, state.Err, "model unreachable")
}

func TestRunReflectionFailureStillProducesAnswer(t *testing.T) {
	synth := &stubSynthesizer{answer: "answer"}
	orch := NewOrchestrator(allEnabled(), defaultAdapters(),
		&stubReflector{err: errors.New("reflection service down")}, synth)

	answer, state := orch.Run(context.Background(), "Q")

	assert.Equal(t, "answer", answer)
	assert.True(t, state.Completed)
}

func TestRunSynthesisReceivesEvidenceNotCommentary(t *testing.T) {
	synth := &stubSynthesizer{answer: "answer"}
	orch := NewOrchestrator(allEnabled(), defaultAdapters(),
		&stubReflector{commentary: "commentary body\nFURTHER_RESEARCH_NEEDED: No"}, synth)

	orch.Run(context.Background(), "my question")

	assert.Contains(t, synth.gotFindings, "# Research Analysis: my question")
	assert.Contains(t, synth.gotFindings, "A Web Result")
	assert.NotContains(t, synth.gotFindings, "commentary body")
}

func TestRunParsesAcademicEvidence(t *testing.T) {
	synth := &stubSynthesizer{answer: "answer"}
	orch := NewOrchestrator(allEnabled(), defaultAdapters(),
		&stubReflector{commentary: "FURTHER_RESEARCH_NEEDED: Yes"}, synth)

	_, state := orch.Run(context.Background(), "transformers")

	require.True(t, len(state.Evidence) >= 2)
	academic := state.Evidence[1]
	require.Equal(t, SourceAcademic, academic.Source)
	require.Len(t, academic.Items, 2)
	assert.Contains(t, academic.Results, "## Academic Sources")
	assert.Contains(t, academic.Results, "[Attention Is All You Need](https://arxiv.org/abs/1706.03762)")
}

func TestRoute(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{"web", "web"},
		{"academic", "academic"},
		{"video", "video"},
		{"social", "social"},
		{"summarize", "summarize"},
		{"", "summarize"},
		{"bogus", "summarize"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("action=%q", tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, route(State{NextAction: tt.action}))
		})
	}
}
