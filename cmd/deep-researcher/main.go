package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mikeboe/deep-researcher/pkg/clients"
	"github.com/mikeboe/deep-researcher/pkg/config"
	"github.com/mikeboe/deep-researcher/pkg/database"
	"github.com/mikeboe/deep-researcher/pkg/embeddings"
	"github.com/mikeboe/deep-researcher/pkg/knowledge"
	"github.com/mikeboe/deep-researcher/pkg/rag"
	"github.com/mikeboe/deep-researcher/pkg/research"
	"github.com/mikeboe/deep-researcher/pkg/search"
	"github.com/mikeboe/deep-researcher/pkg/splitter"
	"github.com/mikeboe/deep-researcher/pkg/vectorstore"
)

const embeddingDimension = 1536

var (
	topic          string
	collectionName string
	retrievalK     int
)

func main() {
	handler := slog.NewTextHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(handler))

	// It's okay if .env doesn't exist, as long as env vars are set
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "deep-researcher",
		Short: "A terminal-based research agent",
		Long:  `deep-researcher answers open-ended questions by cycling through web, academic, video and social searches until its reflection step decides the evidence suffices, then synthesizes a report. It also maintains a personal knowledge collection for grounded question answering.`,
	}

	rootCmd.AddCommand(researchCmd(cfg))
	rootCmd.AddCommand(ingestCmd(cfg))
	rootCmd.AddCommand(queryCmd(cfg))
	rootCmd.AddCommand(retrieveCmd(cfg))
	rootCmd.AddCommand(infoCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

func researchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Run the iterative research loop on a question",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("topic") {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Enter research question: ")
				input, _ := reader.ReadString('\n')
				topic = strings.TrimSpace(input)
			}
			if topic == "" {
				slog.Error("Research question cannot be empty")
				os.Exit(1)
			}

			ctx := context.Background()
			orch, err := buildOrchestrator(ctx, cfg)
			if err != nil {
				slog.Error("Failed to initialize orchestrator", "error", err)
				os.Exit(1)
			}

			slog.Info("Starting research", "question", topic)
			answer, state := orch.Run(ctx, topic)
			if state.Err != "" {
				slog.Error("Research failed", "error", state.Err)
			}

			fmt.Println(answer)
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "The research question")
	return cmd
}

func ingestCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest documents into the knowledge collection",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			store, err := buildStore(ctx, cfg)
			if err != nil {
				slog.Error("Failed to open knowledge store", "error", err)
				os.Exit(1)
			}

			total := 0
			for _, path := range args {
				added := store.IngestDocument(ctx, path, nil)
				fmt.Printf("%s: %d chunks\n", path, added)
				total += added
			}
			fmt.Printf("Ingested %d chunks total\n", total)
		},
	}
	cmd.Flags().StringVarP(&collectionName, "collection", "c", "", "Target collection name")
	return cmd
}

func queryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Answer a question grounded in the knowledge collection",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			store, err := buildStore(ctx, cfg)
			if err != nil {
				slog.Error("Failed to open knowledge store", "error", err)
				os.Exit(1)
			}

			model, err := clients.GoogleAi(ctx, cfg.GoogleApiKey, clients.ModelType(cfg.ReasoningModel))
			if err != nil {
				slog.Error("Failed to create model client", "error", err)
				os.Exit(1)
			}

			agent := rag.NewAgent(store, &research.LLMAnswerer{Model: model}, cfg.RetrievalK, nil)
			state, err := agent.Query(ctx, args[0])
			if err != nil {
				slog.Error("Query failed", "error", err)
				os.Exit(1)
			}

			fmt.Println(state.Answer)
		},
	}
	cmd.Flags().StringVarP(&collectionName, "collection", "c", "", "Target collection name")
	return cmd
}

func retrieveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrieve <query>",
		Short: "Show the most similar stored chunks for a query",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			store, err := buildStore(ctx, cfg)
			if err != nil {
				slog.Error("Failed to open knowledge store", "error", err)
				os.Exit(1)
			}

			results, err := store.RetrieveWithScores(ctx, args[0], retrievalK)
			if err != nil {
				slog.Error("Retrieval failed", "error", err)
				os.Exit(1)
			}

			for i, result := range results {
				fmt.Printf("%d. [%.4f] %s\n", i+1, result.Score, result.Document.Content)
				if src := result.Document.Metadata["source"]; src != "" {
					fmt.Printf("   source: %s\n", src)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&collectionName, "collection", "c", "", "Target collection name")
	cmd.Flags().IntVarP(&retrievalK, "k", "k", 5, "Number of results")
	return cmd
}

func infoCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show knowledge collection statistics",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			store, err := buildStore(ctx, cfg)
			if err != nil {
				slog.Error("Failed to open knowledge store", "error", err)
				os.Exit(1)
			}

			info := store.CollectionInfo(ctx)
			fmt.Printf("Collection: %s\n", info.CollectionName)
			fmt.Printf("Vectors:    %d\n", info.VectorCount)
			fmt.Printf("Model:      %s\n", info.EmbeddingModel)
			fmt.Printf("Storage:    %s\n", info.StoragePath)
		},
	}
	cmd.Flags().StringVarP(&collectionName, "collection", "c", "", "Target collection name")
	return cmd
}

// buildStore wires the knowledge store against either the Postgres index
// (when DATABASE_URL is set) or the file-backed index.
func buildStore(ctx context.Context, cfg *config.Config) (*knowledge.Store, error) {
	collection := cfg.CollectionName
	if collectionName != "" {
		collection = collectionName
	}

	embedder, err := embeddings.NewGoogleEmbedder(ctx, cfg.EmbeddingModel, cfg.GoogleApiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	var index knowledge.Index
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureVectorExtension(ctx); err != nil {
			return nil, fmt.Errorf("failed to enable pgvector: %w", err)
		}
		if err := db.CreateCollectionTable(ctx, collection, embeddingDimension); err != nil {
			return nil, err
		}
		index, err = vectorstore.NewPGIndex(db.Pool, collection)
		if err != nil {
			return nil, err
		}
	} else {
		index, err = knowledge.NewFileIndex(cfg.KnowledgeRoot, collection, nil)
		if err != nil {
			return nil, err
		}
	}

	ts := splitter.NewRecursiveCharacterTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	return knowledge.NewStore(collection, index, embedder, ts, nil), nil
}

// buildOrchestrator wires the research loop with live provider adapters and
// LLM-backed reflection and synthesis.
func buildOrchestrator(ctx context.Context, cfg *config.Config) (*research.Orchestrator, error) {
	fast, err := clients.GoogleAi(ctx, cfg.GoogleApiKey, clients.ModelType(cfg.FastModel))
	if err != nil {
		return nil, fmt.Errorf("failed to create fast model client: %w", err)
	}
	reasoning, err := clients.GoogleAi(ctx, cfg.GoogleApiKey, clients.ModelType(cfg.ReasoningModel))
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning model client: %w", err)
	}

	adapters := []research.Adapter{
		search.NewWebAdapter(cfg.Search.MaxWebResults),
		search.NewAcademicAdapter(cfg.Search.MaxAcademicResults),
		search.NewVideoAdapter(cfg.Search.MaxVideoResults),
		search.NewSocialAdapter(cfg.TwitterBearerToken, cfg.Search.MaxSocialResults),
	}

	return research.NewOrchestrator(cfg.Search, adapters,
		&research.LLMReflector{Model: fast},
		&research.LLMSynthesizer{Model: reasoning},
	), nil
}
