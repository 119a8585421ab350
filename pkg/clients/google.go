package clients

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
)

// ModelType is an enum for the available Google AI models.
type ModelType string

const (
	// FastModel handles reflection and routing, where latency matters more
	// than depth.
	FastModel ModelType = "gemini-3-flash-preview"
	// ReasoningModel handles synthesis and final answers.
	ReasoningModel ModelType = "gemini-3-pro-preview"
)

// GoogleAi builds a langchaingo client bound to the given Gemini model.
func GoogleAi(ctx context.Context, apiKey string, model ModelType) (*googleai.GoogleAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google api key is not set")
	}
	if model == "" {
		model = FastModel
	}

	// See https://ai.google.dev/gemini-api/docs/models/gemini for possible models
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(string(model)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return llm, nil
}
