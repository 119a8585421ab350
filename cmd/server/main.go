package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mikeboe/deep-researcher/pkg/chat"
	"github.com/mikeboe/deep-researcher/pkg/clients"
	"github.com/mikeboe/deep-researcher/pkg/config"
	"github.com/mikeboe/deep-researcher/pkg/database"
	"github.com/mikeboe/deep-researcher/pkg/embeddings"
	"github.com/mikeboe/deep-researcher/pkg/knowledge"
	"github.com/mikeboe/deep-researcher/pkg/rag"
	"github.com/mikeboe/deep-researcher/pkg/research"
	"github.com/mikeboe/deep-researcher/pkg/search"
	"github.com/mikeboe/deep-researcher/pkg/server"
	"github.com/mikeboe/deep-researcher/pkg/splitter"
	"github.com/mikeboe/deep-researcher/pkg/vectorstore"
)

const embeddingDimension = 1536

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Knowledge store
	embedder, err := embeddings.NewGoogleEmbedder(ctx, cfg.EmbeddingModel, cfg.GoogleApiKey)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	var index knowledge.Index
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.EnsureVectorExtension(ctx); err != nil {
			log.Fatalf("Failed to enable pgvector: %v", err)
		}
		if err := db.CreateCollectionTable(ctx, cfg.CollectionName, embeddingDimension); err != nil {
			log.Fatalf("Failed to create collection table: %v", err)
		}
		index, err = vectorstore.NewPGIndex(db.Pool, cfg.CollectionName)
		if err != nil {
			log.Fatalf("Failed to create vector index: %v", err)
		}
	} else {
		index, err = knowledge.NewFileIndex(cfg.KnowledgeRoot, cfg.CollectionName, nil)
		if err != nil {
			log.Fatalf("Failed to open collection index: %v", err)
		}
	}

	ts := splitter.NewRecursiveCharacterTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	store := knowledge.NewStore(cfg.CollectionName, index, embedder, ts, nil)

	// LLM clients
	fast, err := clients.GoogleAi(ctx, cfg.GoogleApiKey, clients.ModelType(cfg.FastModel))
	if err != nil {
		log.Fatalf("Failed to create fast model client: %v", err)
	}
	reasoning, err := clients.GoogleAi(ctx, cfg.GoogleApiKey, clients.ModelType(cfg.ReasoningModel))
	if err != nil {
		log.Fatalf("Failed to create reasoning model client: %v", err)
	}

	// Research orchestrator
	adapters := []research.Adapter{
		search.NewWebAdapter(cfg.Search.MaxWebResults),
		search.NewAcademicAdapter(cfg.Search.MaxAcademicResults),
		search.NewVideoAdapter(cfg.Search.MaxVideoResults),
		search.NewSocialAdapter(cfg.TwitterBearerToken, cfg.Search.MaxSocialResults),
	}
	orch := research.NewOrchestrator(cfg.Search, adapters,
		&research.LLMReflector{Model: fast},
		&research.LLMSynthesizer{Model: reasoning},
	)

	// RAG agent
	ragAgent := rag.NewAgent(store, &research.LLMAnswerer{Model: reasoning}, cfg.RetrievalK, nil)

	// Chat service
	chatSvc, err := chat.NewService(ctx, store, cfg)
	if err != nil {
		log.Fatalf("Failed to init chat service: %v", err)
	}

	svc := server.NewService(orch)
	handler := server.NewHandler(svc, store, ragAgent, chatSvc, chat.NewKnowledgeToolset(store))

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Mcp-Session-Id"},
		ExposeHeaders:    []string{"Content-Length", "Mcp-Session-Id"},
		AllowCredentials: true,
	}))

	handler.RegisterRoutes(r)

	fmt.Printf("Server starting on port %s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
