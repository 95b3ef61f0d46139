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
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryRouter implements ai.QueryRouter using OpenAI-compatible chat APIs.
type QueryRouter struct {
	client     llms.Model
	maxRetries int
	logger     *slog.Logger

	// now is overridable in tests so the prompt's current date is stable.
	now func() time.Time
}

// routeAction values returned by the model.
const (
	actionAnswer          = "answer"
	actionSearchLineItems = "search_line_items"
	actionSearchInvoices  = "search_invoices"
)

// lineItemsArgs mirrors the router schema's line item search arguments.
type lineItemsArgs struct {
	QueryText        *string  `json:"query_text"`
	PageNumber       *int     `json:"page_number"`
	MinPage          *int     `json:"min_page"`
	MaxPage          *int     `json:"max_page"`
	InvoiceNumber    *string  `json:"invoice_number"`
	SenderName       *string  `json:"sender_name"`
	InvoiceDateStart *string  `json:"invoice_date_start"`
	InvoiceDateEnd   *string  `json:"invoice_date_end"`
	MinAmount        *float64 `json:"min_amount"`
	MaxAmount        *float64 `json:"max_amount"`
	Limit            *int     `json:"limit"`
}

// invoicesArgs mirrors the router schema's invoice search arguments.
type invoicesArgs struct {
	SenderName    *string `json:"sender_name"`
	InvoiceNumber *string `json:"invoice_number"`
	Status        *string `json:"status"`
	FilenameQuery *string `json:"filename_query"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
}

// routeResponse is the wrapper structure for the model's JSON response.
type routeResponse struct {
	Action    string         `json:"action"`
	Answer    *string        `json:"answer"`
	LineItems *lineItemsArgs `json:"line_items"`
	Invoices  *invoicesArgs  `json:"invoices"`
}

// newQueryRouter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryRouter(config *ai.Config) (*QueryRouter, error) {
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

	return &QueryRouter{
		client:     client,
		maxRetries: config.MaxRetries,
		logger:     slog.Default().With("component", "openai-router"),
		now:        time.Now,
	}, nil
}

// NewQueryRouter creates a new query router using the provided configuration.
//
// Returns ai.QueryRouter interface to enforce abstraction.
func NewQueryRouter(config *ai.Config) (ai.QueryRouter, error) {
	return newQueryRouter(config)
}

// Route classifies the question and extracts structured search filters.
func (r *QueryRouter) Route(ctx context.Context, userQuery string) (*ai.Route, error) {
	systemPrompt := buildRouterPrompt(r.now().Format("2006-01-02"))
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

	var result routeResponse
	var lastErr error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.2), llms.WithJSONMode())
		if err != nil {
			r.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			lastErr = errors.New("no choices returned from model")
			continue
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			r.logger.Warn("error parsing router response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		r.logger.Error("failed to parse router response after retries", "err", lastErr)
		return nil, lastErr
	}

	return r.toRoute(&result)
}

// toRoute converts the model's routing envelope into an ai.Route, validating
// that the declared action carries its payload.
func (r *QueryRouter) toRoute(resp *routeResponse) (*ai.Route, error) {
	switch resp.Action {
	case actionAnswer:
		if resp.Answer == nil || *resp.Answer == "" {
			return nil, errors.New("router chose direct answer but returned no text")
		}
		return &ai.Route{Answer: *resp.Answer}, nil

	case actionSearchLineItems:
		if resp.LineItems == nil {
			return nil, errors.New("router chose line item search but returned no arguments")
		}
		criteria := &core.LineItemSearchCriteria{
			QueryText:        strValue(resp.LineItems.QueryText),
			PageNumber:       resp.LineItems.PageNumber,
			MinPage:          resp.LineItems.MinPage,
			MaxPage:          resp.LineItems.MaxPage,
			InvoiceNumber:    strValue(resp.LineItems.InvoiceNumber),
			SenderName:       strValue(resp.LineItems.SenderName),
			InvoiceDateStart: strValue(resp.LineItems.InvoiceDateStart),
			InvoiceDateEnd:   strValue(resp.LineItems.InvoiceDateEnd),
			MinAmount:        resp.LineItems.MinAmount,
			MaxAmount:        resp.LineItems.MaxAmount,
		}
		if resp.LineItems.Limit != nil {
			criteria.Limit = *resp.LineItems.Limit
		}
		criteria.Normalize()
		return &ai.Route{LineItems: criteria}, nil

	case actionSearchInvoices:
		if resp.Invoices == nil {
			return nil, errors.New("router chose invoice search but returned no arguments")
		}
		criteria := &core.InvoiceSearchCriteria{
			InvoiceNumber: strValue(resp.Invoices.InvoiceNumber),
			SenderName:    strValue(resp.Invoices.SenderName),
			FilenameQuery: strValue(resp.Invoices.FilenameQuery),
			StartDate:     strValue(resp.Invoices.StartDate),
			EndDate:       strValue(resp.Invoices.EndDate),
		}
		if resp.Invoices.Status != nil && *resp.Invoices.Status != "" {
			status, err := core.ParseProcessingStatus(*resp.Invoices.Status)
			if err != nil {
				return nil, err
			}
			criteria.Status = &status
		}
		return &ai.Route{Invoices: criteria}, nil

	default:
		return nil, fmt.Errorf("router returned unknown action %q", resp.Action)
	}
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
