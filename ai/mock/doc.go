// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.PageExtractor,
// ai.QueryRouter, ai.AnswerGenerator, and ai.Provider for use in unit tests.
// The mocks allow tests to run without external AI service dependencies and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test", ai.EmbedQuery)
//
//	// Custom behavior injection
//	mockExtractor := mock.NewMockPageExtractor()
//	mockExtractor.ExtractPageFunc = func(ctx context.Context, pageText string, prev ai.PageState) (*ai.PageExtraction, error) {
//	    return &ai.PageExtraction{NextPageState: prev}, nil
//	}
//
//	// Check call counts
//	count := mockExtractor.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockPageExtractor: Turns page lines into line items and passes state through
//   - MockQueryRouter: Routes every question to an unfiltered line item search
//   - MockAnswerGenerator: Summarizes how many items were retrieved
//   - MockProvider: Aggregates all of the above
package mock
