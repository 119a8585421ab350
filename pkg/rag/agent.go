// Package rag composes the knowledge store's retrieval with a single-shot
// answer call: retrieved passages become the context for one synthesis
// request, without rerunning the full research loop.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mikeboe/deep-researcher/pkg/knowledge"
)

// Answerer produces an answer from a question and retrieved context.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// Retriever is the subset of the knowledge store the agent needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]knowledge.Document, error)
}

// State records one question-answer exchange with its retrieval trace.
type State struct {
	Question      string               `json:"question"`
	Context       []string             `json:"context"`
	RetrievedDocs []knowledge.Document `json:"retrieved_docs"`
	Answer        string               `json:"answer"`
}

// Agent answers questions grounded in a knowledge store collection.
type Agent struct {
	retriever Retriever
	answerer  Answerer
	k         int
	logger    *slog.Logger
}

func NewAgent(retriever Retriever, answerer Answerer, k int, logger *slog.Logger) *Agent {
	if k <= 0 {
		k = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{retriever: retriever, answerer: answerer, k: k, logger: logger}
}

// Query retrieves context for the question and produces one grounded answer.
// Retrieval failures degrade to an answer without context rather than
// failing the call.
func (a *Agent) Query(ctx context.Context, question string) (State, error) {
	state := State{Question: question}

	docs, err := a.retriever.Retrieve(ctx, question, a.k)
	if err != nil {
		a.logger.Warn("retrieval failed, answering without context", "error", err)
	} else {
		state.RetrievedDocs = docs
		for _, doc := range docs {
			state.Context = append(state.Context, doc.Content)
		}
	}

	answer, err := a.answerer.Answer(ctx, question, joinContext(state.Context))
	if err != nil {
		return state, fmt.Errorf("answer generation failed: %w", err)
	}

	state.Answer = answer
	return state, nil
}

func joinContext(passages []string) string {
	if len(passages) == 0 {
		return "(no relevant documents found)"
	}
	out := passages[0]
	for _, p := range passages[1:] {
		out += "\n\n" + p
	}
	return out
}
