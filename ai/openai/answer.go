package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// AnswerGenerator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type AnswerGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerGenerator(config *ai.Config) (*AnswerGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &AnswerGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewAnswerGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newAnswerGenerator(config)
}

// GenerateAnswer produces a grounded natural-language answer from the
// retrieved line items. Generation runs with a higher temperature than
// extraction since fluent prose matters more than strict structure here.
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, userQuery string, items []*core.LineItemResult) (string, error) {
	systemPrompt := buildAnswerPrompt(formatContext(items))
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userQuery),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.85))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 || strings.TrimSpace(response.Choices[0].Content) == "" {
		return "", errors.New("no generated answer returned")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// formatContext renders retrieved line items as the context block for the
// answer prompt. Each entry carries its citation coordinates.
func formatContext(items []*core.LineItemResult) string {
	var b strings.Builder
	b.WriteString("Found Line Items:\n")
	for _, item := range items {
		amount := "unknown"
		if item.TotalAmount != nil {
			amount = fmt.Sprintf("%.2f", *item.TotalAmount)
		}
		fmt.Fprintf(&b, "- Item: %s | Cost: %s | Date: %s | [Inv: %d, Page: %d]\n",
			item.Description, amount, item.DeliveryDate, item.InvoiceId, item.PageNumber)
	}
	return b.String()
}
