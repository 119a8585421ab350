package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/deep-researcher/pkg/knowledge"
	"github.com/mikeboe/deep-researcher/pkg/splitter"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Model() string { return "test-fixed-embedder" }

func (fixedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0, 0}, nil
}

func (e fixedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		vec, err := e.EmbedText(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func newTestToolset(t *testing.T) *KnowledgeToolset {
	t.Helper()
	idx, err := knowledge.NewFileIndex(t.TempDir(), "default", nil)
	require.NoError(t, err)
	store := knowledge.NewStore("default", idx, fixedEmbedder{},
		splitter.NewRecursiveCharacterTextSplitter(1000, 200), nil)
	return NewKnowledgeToolset(store)
}

func TestSearchContentDefaultsNonPositiveTopK(t *testing.T) {
	// MCP callers control topK directly; zero and negative values fall back
	// to the default instead of reaching the index.
	tools := newTestToolset(t)
	ctx := context.Background()

	tools.Store.IngestText(ctx, "gophers burrow underground", map[string]string{"source": "notes.txt"})

	for _, topK := range []int{0, -1} {
		resp, err := tools.SearchContent(ctx, SearchContentArgs{Query: "gophers", TopK: topK})
		require.NoError(t, err)
		assert.Contains(t, resp.Results, "gophers burrow underground")
		assert.Contains(t, resp.Results, "[Source]: notes.txt")
	}
}

func TestCollectionInfoTool(t *testing.T) {
	tools := newTestToolset(t)

	resp, err := tools.CollectionInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "default", resp.CollectionName)
	assert.Equal(t, 1, resp.VectorCount)
	assert.Equal(t, "test-fixed-embedder", resp.EmbeddingModel)
}
