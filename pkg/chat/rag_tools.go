package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"github.com/mikeboe/deep-researcher/pkg/knowledge"
)

// KnowledgeToolset exposes the knowledge store to the chat agent.
type KnowledgeToolset struct {
	Store *knowledge.Store
}

func NewKnowledgeToolset(store *knowledge.Store) *KnowledgeToolset {
	return &KnowledgeToolset{Store: store}
}

func (t *KnowledgeToolset) Name() string {
	return "knowledge_tools"
}

func (t *KnowledgeToolset) Tools(ctx agent.ReadonlyContext) ([]tool.Tool, error) {
	searchTool, err := functiontool.New[SearchContentArgs, SearchContentResp](
		functiontool.Config{
			Name:        "search_content",
			Description: "Search the personal knowledge collection using semantic search.",
		},
		t.searchContentTool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search tool: %w", err)
	}

	infoTool, err := functiontool.New[CollectionInfoArgs, CollectionInfoResp](
		functiontool.Config{
			Name:        "collection_info",
			Description: "Report the name, size and embedding model of the knowledge collection.",
		},
		t.collectionInfoTool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection_info tool: %w", err)
	}

	return []tool.Tool{searchTool, infoTool}, nil
}

// --- Tool Implementations ---

type SearchContentArgs struct {
	Query string `json:"query" description:"The search query"`
	TopK  int    `json:"topK,omitempty" description:"Number of results to return (default 5)"`
}

type SearchContentResp struct {
	Results string `json:"results"`
}

// Wrapper for ADK tool interface
func (t *KnowledgeToolset) searchContentTool(ctx tool.Context, args SearchContentArgs) (SearchContentResp, error) {
	return t.SearchContent(ctx, args)
}

// Public method using standard context
func (t *KnowledgeToolset) SearchContent(ctx context.Context, args SearchContentArgs) (SearchContentResp, error) {
	if args.TopK <= 0 {
		args.TopK = 5
	}

	slog.Info("Search content", "query", args.Query, "topK", args.TopK)

	results, err := t.Store.RetrieveWithScores(ctx, args.Query, args.TopK)
	if err != nil {
		return SearchContentResp{}, fmt.Errorf("failed to search: %w", err)
	}

	var formattedResults []string
	for _, result := range results {
		source := result.Document.Metadata["source"]
		if source == "" {
			source = "unknown"
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("[Source]: %s\n[Content]: %s", source, result.Document.Content))

		for k, v := range result.Document.Metadata {
			if k == "source" {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n[%s]: %s", k, v))
		}

		formattedResults = append(formattedResults, sb.String())
	}

	return SearchContentResp{Results: strings.Join(formattedResults, "\n\n")}, nil
}

type CollectionInfoArgs struct{}

type CollectionInfoResp struct {
	CollectionName string `json:"collection_name"`
	VectorCount    int    `json:"vector_count"`
	EmbeddingModel string `json:"embedding_model"`
}

// Wrapper for ADK tool interface
func (t *KnowledgeToolset) collectionInfoTool(ctx tool.Context, args CollectionInfoArgs) (CollectionInfoResp, error) {
	return t.CollectionInfo(ctx)
}

// Public method using standard context
func (t *KnowledgeToolset) CollectionInfo(ctx context.Context) (CollectionInfoResp, error) {
	info := t.Store.CollectionInfo(ctx)
	return CollectionInfoResp{
		CollectionName: info.CollectionName,
		VectorCount:    info.VectorCount,
		EmbeddingModel: info.EmbeddingModel,
	}, nil
}
