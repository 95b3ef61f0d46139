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

package invoicit

import (
	"log/slog"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/ai/openai"
	"github.com/poiesic/invoicit/ingestion"
	"github.com/poiesic/invoicit/query"
	"github.com/poiesic/invoicit/retrieval"
	"github.com/poiesic/invoicit/storage"
	"github.com/poiesic/invoicit/storage/badger"
)

// System wires storage and AI services into one invoice store.
type System struct {
	repos    *badger.Repositories
	provider ai.Provider
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI configuration used to build the default provider.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider instead of the default
// OpenAI-compatible one. The system takes ownership and closes it.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory. Intended for tests.
func WithInMemoryStorage() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// OpenSystem opens or creates an invoice store at dbPath.
func OpenSystem(dbPath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var (
		repos *badger.Repositories
		err   error
	)
	if options.inMemory {
		repos, err = badger.NewMemoryRepositories()
	} else {
		repos, err = badger.NewRepositories(dbPath)
	}
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repos.Close()
			return nil, err
		}
	}

	return &System{
		repos:    repos,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and storage. The system should not be used
// after calling Close.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.repos.Close(); err != nil {
		s.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

func (s *System) InvoiceRepository() storage.InvoiceRepository {
	return s.repos.Invoices
}

func (s *System) LineItemRepository() storage.LineItemRepository {
	return s.repos.LineItems
}

func (s *System) PlanExecutor() storage.PlanExecutor {
	return s.repos.Executor
}

func (s *System) Provider() ai.Provider {
	return s.provider
}

// NewIngestionPipeline builds an ingestion pipeline over this system's
// storage and provider.
func (s *System) NewIngestionPipeline(parser ingestion.DocumentParser, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.repos.Invoices, s.repos.LineItems, parser, s.provider, opts...)
}

// NewQueryService builds a query service over this system's storage.
func (s *System) NewQueryService(opts ...query.Option) (*query.Service, error) {
	return query.NewService(s.repos.Executor, s.repos.Invoices, s.provider.Embedder(), opts...)
}

// NewRetrievalService builds a retrieval service, including the query
// service it searches through.
func (s *System) NewRetrievalService(opts ...retrieval.Option) (*retrieval.Service, error) {
	queries, err := s.NewQueryService()
	if err != nil {
		return nil, err
	}
	return retrieval.NewService(queries, s.provider, opts...)
}
