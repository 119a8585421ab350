// Package chat runs a tool-using assistant over the knowledge store: the
// agent can search the collection and inspect it while answering in a
// multi-turn conversation.
package chat

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"

	"github.com/mikeboe/deep-researcher/pkg/config"
	"github.com/mikeboe/deep-researcher/pkg/knowledge"
)

const agentName = "deep_researcher"

type Service struct {
	Agent agent.Agent

	mu            sync.Mutex
	conversations map[uuid.UUID]*Conversation
}

type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// StreamEvent represents a single event in the chat stream
type StreamEvent struct {
	Type    string      `json:"type"` // "content", "tool_call", "tool_result", "error", "done"
	Payload interface{} `json:"payload"`
}

func NewService(ctx context.Context, store *knowledge.Store, cfg *config.Config) (*Service, error) {
	modelClient, err := gemini.NewModel(ctx, cfg.ReasoningModel, &genai.ClientConfig{
		APIKey: cfg.GoogleApiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	tools := NewKnowledgeToolset(store)

	chatAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       modelClient,
		Description: "A research assistant with access to a personal knowledge collection.",
		Instruction: "You are a helpful research assistant. Use the available tools to search the knowledge collection and answer the user's questions based on the retrieved content. ALWAYS use the search_content tool first. Group your answer by source, with an unordered list of content pieces supporting the question.",
		Toolsets: []tool.Toolset{
			tools,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return &Service{
		Agent:         chatAgent,
		conversations: make(map[uuid.UUID]*Conversation),
	}, nil
}

func (s *Service) CreateConversation() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &Conversation{
		ID:        uuid.New(),
		Title:     "New conversation",
		CreatedAt: time.Now(),
	}
	s.conversations[conv.ID] = conv
	return conv
}

func (s *Service) GetConversation(id uuid.UUID) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	return conv, ok
}

func (s *Service) appendMessage(id uuid.UUID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[id]; ok {
		conv.Messages = append(conv.Messages, Message{Role: role, Content: content, CreatedAt: time.Now()})
	}
}

func (s *Service) SendMessage(ctx context.Context, conversationID uuid.UUID, content string) (iter.Seq2[StreamEvent, error], error) {
	conv, ok := s.GetConversation(conversationID)
	if !ok {
		return nil, fmt.Errorf("unknown conversation %s", conversationID)
	}

	sessionSvc := session.InMemoryService()
	appName := "deep-researcher"
	userID := "user"
	sessionID := conversationID.String()

	createRes, err := sessionSvc.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	storedSession := createRes.Session

	// Hydrate history so the agent sees earlier turns.
	for _, msg := range conv.Messages {
		role := "user"
		author := "user"
		if msg.Role == "model" {
			role = "model"
			author = agentName
		}

		evt := session.NewEvent(uuid.NewString())
		evt.Author = author
		evt.LLMResponse = model.LLMResponse{
			Content: &genai.Content{
				Role: role,
				Parts: []*genai.Part{
					{Text: msg.Content},
				},
			},
		}

		sessionSvc.AppendEvent(ctx, storedSession, evt)
	}

	s.appendMessage(conversationID, "user", content)

	run, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          s.Agent,
		SessionService: sessionSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	userContent := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: content},
		},
	}

	return func(yield func(StreamEvent, error) bool) {
		slog.Info("Starting agent run", "conversation_id", conversationID)
		runCfg := agent.RunConfig{
			StreamingMode: agent.StreamingModeSSE,
		}

		next := run.Run(ctx, userID, sessionID, userContent, runCfg)

		var finalResponse string

		for event, err := range next {
			if err != nil {
				slog.Error("Agent runner error", "error", err)
				yield(StreamEvent{Type: "error", Payload: err.Error()}, err)
				return
			}

			if event.LLMResponse.Content != nil {
				for _, part := range event.LLMResponse.Content.Parts {
					if part.Text != "" {
						finalResponse += part.Text
						if !yield(StreamEvent{Type: "content", Payload: part.Text}, nil) {
							return
						}
					}
					if part.FunctionCall != nil {
						slog.Info("Agent tool call", "tool", part.FunctionCall.Name)
						if !yield(StreamEvent{Type: "tool_call", Payload: part.FunctionCall}, nil) {
							return
						}
					}
					if part.FunctionResponse != nil {
						slog.Info("Agent tool result", "tool", part.FunctionResponse.Name)
						if !yield(StreamEvent{Type: "tool_result", Payload: part.FunctionResponse}, nil) {
							return
						}
					}
				}
			}
		}

		slog.Info("Agent run completed")
		s.appendMessage(conversationID, "model", finalResponse)

		yield(StreamEvent{Type: "done", Payload: "done"}, nil)
	}, nil
}
