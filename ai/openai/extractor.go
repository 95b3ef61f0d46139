// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/poiesic/invoicit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// PageExtractor implements ai.PageExtractor using OpenAI-compatible chat APIs.
type PageExtractor struct {
	client     llms.Model
	maxRetries int
	logger     *slog.Logger
}

// newPageExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newPageExtractor(config *ai.Config) (*PageExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &PageExtractor{
		client:     client,
		maxRetries: config.MaxRetries,
		logger:     slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewPageExtractor creates a new page extractor using the provided configuration.
//
// Returns ai.PageExtractor interface to enforce abstraction.
func NewPageExtractor(config *ai.Config) (ai.PageExtractor, error) {
	return newPageExtractor(config)
}

// ExtractPage processes one page of a multi-page document with the previous
// page's state embedded in the prompt.
func (e *PageExtractor) ExtractPage(ctx context.Context, pageText string, previous ai.PageState) (*ai.PageExtraction, error) {
	prompt := buildMultiPagePrompt(previous.JSON(), pageText)

	var result ai.PageExtraction
	if err := e.generateJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}

	// The model occasionally omits the state object entirely. Carry the
	// previous state forward so the chain stays coherent.
	if result.NextPageState.TableStatus == "" {
		result.NextPageState = previous
	}
	if result.NextPageState.ActiveColumns == nil {
		result.NextPageState.ActiveColumns = []string{}
	}

	e.logger.Debug("extracted page",
		"items", len(result.LineItems),
		"table_status", result.NextPageState.TableStatus)
	return &result, nil
}

// ExtractSingle processes a complete single-page document in one shot.
func (e *PageExtractor) ExtractSingle(ctx context.Context, pageText string) (*ai.SinglePageExtraction, error) {
	prompt := buildSinglePagePrompt(pageText)

	var result ai.SinglePageExtraction
	if err := e.generateJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}

	e.logger.Debug("extracted single page", "items", len(result.LineItems))
	return &result, nil
}

// generateJSON runs the prompt in JSON mode and unmarshals the response into
// out, retrying on malformed JSON up to the configured attempt count.
func (e *PageExtractor) generateJSON(ctx context.Context, prompt string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			lastErr = errors.New("no choices returned from model")
			e.logger.Warn("no choices returned from model", "attempt", attempt+1)
			continue
		}

		responseText := stripCodeFences(response.Choices[0].Content)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extraction response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	e.logger.Error("failed to parse extraction response after retries", "err", lastErr)
	return lastErr
}
