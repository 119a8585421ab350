package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/deep-researcher/pkg/knowledge"
)

type fakeRetriever struct {
	docs []knowledge.Document
	err  error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int) ([]knowledge.Document, error) {
	return f.docs, f.err
}

type fakeAnswerer struct {
	answer     string
	err        error
	gotContext string
}

func (f *fakeAnswerer) Answer(ctx context.Context, question, contextText string) (string, error) {
	f.gotContext = contextText
	return f.answer, f.err
}

func TestQueryFeedsRetrievedContextToAnswer(t *testing.T) {
	retriever := &fakeRetriever{docs: []knowledge.Document{
		{Content: "Paris is the capital of France."},
		{Content: "France is in Europe."},
	}}
	answerer := &fakeAnswerer{answer: "Paris."}
	agent := NewAgent(retriever, answerer, 2, nil)

	state, err := agent.Query(context.Background(), "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "Paris.", state.Answer)
	assert.Len(t, state.RetrievedDocs, 2)
	assert.Equal(t, []string{"Paris is the capital of France.", "France is in Europe."}, state.Context)
	assert.Contains(t, answerer.gotContext, "Paris is the capital of France.")
	assert.Contains(t, answerer.gotContext, "France is in Europe.")
}

func TestQueryRetrievalFailureStillAnswers(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("index offline")}
	answerer := &fakeAnswerer{answer: "best effort"}
	agent := NewAgent(retriever, answerer, 3, nil)

	state, err := agent.Query(context.Background(), "Q")

	require.NoError(t, err)
	assert.Equal(t, "best effort", state.Answer)
	assert.Empty(t, state.RetrievedDocs)
	assert.Contains(t, answerer.gotContext, "no relevant documents")
}

func TestQueryAnswerFailurePropagates(t *testing.T) {
	agent := NewAgent(&fakeRetriever{}, &fakeAnswerer{err: errors.New("model down")}, 3, nil)

	state, err := agent.Query(context.Background(), "Q")

	require.Error(t, err)
	assert.Empty(t, state.Answer)
	assert.Equal(t, "Q", state.Question)
}
