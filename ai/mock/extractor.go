package mock

import (
	"context"
	"strings"

	"github.com/poiesic/invoicit/ai"
)

// MockPageExtractor is a test double for ai.PageExtractor.
// It allows custom behavior injection via function fields.
type MockPageExtractor struct {
	// ExtractPageFunc is called by ExtractPage if set.
	// If nil, uses default line-per-item behavior.
	ExtractPageFunc func(ctx context.Context, pageText string, previous ai.PageState) (*ai.PageExtraction, error)

	// ExtractSingleFunc is called by ExtractSingle if set.
	// If nil, uses default line-per-item behavior.
	ExtractSingleFunc func(ctx context.Context, pageText string) (*ai.SinglePageExtraction, error)

	callCount int
}

// NewMockPageExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockPageExtractor() *MockPageExtractor {
	return &MockPageExtractor{}
}

// ExtractPage extracts simple mock line items from page text.
// Default behavior: each non-empty line becomes a line item description, the
// incoming state is passed through unchanged, and no metadata is reported.
func (m *MockPageExtractor) ExtractPage(ctx context.Context, pageText string, previous ai.PageState) (*ai.PageExtraction, error) {
	m.callCount++

	if m.ExtractPageFunc != nil {
		return m.ExtractPageFunc(ctx, pageText, previous)
	}

	return &ai.PageExtraction{
		NextPageState: previous,
		LineItems:     itemsFromLines(pageText),
	}, nil
}

// ExtractSingle extracts simple mock line items from a single-page document.
func (m *MockPageExtractor) ExtractSingle(ctx context.Context, pageText string) (*ai.SinglePageExtraction, error) {
	m.callCount++

	if m.ExtractSingleFunc != nil {
		return m.ExtractSingleFunc(ctx, pageText)
	}

	return &ai.SinglePageExtraction{
		LineItems: itemsFromLines(pageText),
	}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockPageExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockPageExtractor) Reset() {
	m.callCount = 0
	m.ExtractPageFunc = nil
	m.ExtractSingleFunc = nil
}

// itemsFromLines turns each non-empty line of text into a line item.
func itemsFromLines(pageText string) []ai.ExtractedLineItem {
	lines := strings.Split(pageText, "\n")
	items := make([]ai.ExtractedLineItem, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, ai.ExtractedLineItem{Description: line})
	}
	return items
}
