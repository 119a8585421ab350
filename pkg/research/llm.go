package research

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// generate runs a single human-turn prompt through the model and returns the
// first choice.
func generate(ctx context.Context, model llms.Model, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// LLMReflector implements Reflector on top of an opaque text-completion
// model.
type LLMReflector struct {
	Model llms.Model
}

func (r *LLMReflector) Reflect(ctx context.Context, question, findings string) (string, error) {
	return generate(ctx, r.Model, fmt.Sprintf(reflectionTemplate, question, findings))
}

// LLMSynthesizer implements Synthesizer on top of an opaque text-completion
// model.
type LLMSynthesizer struct {
	Model llms.Model
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, question, findings string) (string, error) {
	return generate(ctx, s.Model, fmt.Sprintf(summaryTemplate, question, findings))
}

// LLMAnswerer produces a single-shot answer from retrieved context, used by
// the RAG composition.
type LLMAnswerer struct {
	Model llms.Model
}

func (a *LLMAnswerer) Answer(ctx context.Context, question, contextText string) (string, error) {
	return generate(ctx, a.Model, fmt.Sprintf(answerTemplate, question, contextText))
}
