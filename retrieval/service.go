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

package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/query"
)

// Response is the outcome of one question. Exactly one of the result fields
// is populated for searches; Answer is set for direct answers and when
// answer generation was requested.
type Response struct {
	Answer    string
	LineItems []*core.LineItemResult
	Invoices  []*core.InvoiceResult
}

// Service answers natural language questions over the invoice store.
type Service struct {
	queries  *query.Service
	router   ai.QueryRouter
	answerer ai.AnswerGenerator
	logger   *slog.Logger
}

// Option is a functional option for configuring a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new retrieval service.
func NewService(queries *query.Service, provider ai.Provider, opts ...Option) (*Service, error) {
	if queries == nil {
		return nil, ErrQueryServiceRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Service{
		queries:  queries,
		router:   provider.QueryRouter(),
		answerer: provider.AnswerGenerator(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Ask routes the question and runs the search it calls for. When
// generateAnswer is set, line item results are additionally summarized into
// a natural language answer; structured results are returned either way.
func (s *Service) Ask(ctx context.Context, userQuery string, generateAnswer bool) (*Response, error) {
	if strings.TrimSpace(userQuery) == "" {
		return nil, ErrEmptyQuery
	}

	route, err := s.router.Route(ctx, userQuery)
	if err != nil {
		return nil, err
	}

	switch {
	case route.Answer != "":
		s.logger.Debug("query answered directly by router")
		return &Response{Answer: route.Answer}, nil

	case route.LineItems != nil:
		s.logger.Debug("query routed to line item search")
		items, err := s.queries.SearchLineItems(ctx, route.LineItems)
		if err != nil {
			return nil, err
		}

		response := &Response{LineItems: items}
		if generateAnswer {
			answer, err := s.answerer.GenerateAnswer(ctx, userQuery, items)
			if err != nil {
				return nil, err
			}
			response.Answer = answer
		}
		return response, nil

	case route.Invoices != nil:
		s.logger.Debug("query routed to invoice search")
		invoices, err := s.queries.SearchInvoices(ctx, route.Invoices)
		if err != nil {
			return nil, err
		}
		return &Response{Invoices: invoices}, nil

	default:
		return nil, ErrUnroutableQuery
	}
}
