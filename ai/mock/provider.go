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


package mock

import "github.com/poiesic/invoicit/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock service instances.
type MockProvider struct {
	embedder  *MockEmbedder
	extractor *MockPageExtractor
	router    *MockQueryRouter
	answerer  *MockAnswerGenerator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder() and friends to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockPageExtractor(),
		router:    NewMockQueryRouter(),
		answerer:  NewMockAnswerGenerator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, extractor *MockPageExtractor, router *MockQueryRouter, answerer *MockAnswerGenerator) ai.Provider {
	return &MockProvider{
		embedder:  embedder,
		extractor: extractor,
		router:    router,
		answerer:  answerer,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// PageExtractor returns the mock page extractor.
func (p *MockProvider) PageExtractor() ai.PageExtractor {
	return p.extractor
}

// QueryRouter returns the mock query router.
func (p *MockProvider) QueryRouter() ai.QueryRouter {
	return p.router
}

// AnswerGenerator returns the mock answer generator.
func (p *MockProvider) AnswerGenerator() ai.AnswerGenerator {
	return p.answerer
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockPageExtractor {
	return p.extractor
}

// GetMockRouter returns the underlying mock router for test assertions.
func (p *MockProvider) GetMockRouter() *MockQueryRouter {
	return p.router
}

// GetMockAnswerGenerator returns the underlying mock answer generator for
// test assertions.
func (p *MockProvider) GetMockAnswerGenerator() *MockAnswerGenerator {
	return p.answerer
}
