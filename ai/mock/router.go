package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
)

// MockQueryRouter is a test double for ai.QueryRouter.
// It allows custom behavior injection via function fields.
type MockQueryRouter struct {
	// RouteFunc is called by Route if set.
	// If nil, every question becomes an unfiltered line item search.
	RouteFunc func(ctx context.Context, userQuery string) (*ai.Route, error)

	callCount int
}

// NewMockQueryRouter creates a mock router with default behavior.
func NewMockQueryRouter() *MockQueryRouter {
	return &MockQueryRouter{}
}

// Route routes the question to a line item search with the question as
// semantic query text and no structured filters.
func (m *MockQueryRouter) Route(ctx context.Context, userQuery string) (*ai.Route, error) {
	m.callCount++

	if m.RouteFunc != nil {
		return m.RouteFunc(ctx, userQuery)
	}

	return &ai.Route{
		LineItems: &core.LineItemSearchCriteria{QueryText: userQuery},
	}, nil
}

// CallCount returns the number of times Route was called.
func (m *MockQueryRouter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockQueryRouter) Reset() {
	m.callCount = 0
	m.RouteFunc = nil
}

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
type MockAnswerGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, returns a summary of how many items were retrieved.
	GenerateAnswerFunc func(ctx context.Context, userQuery string, items []*core.LineItemResult) (string, error)

	callCount int
}

// NewMockAnswerGenerator creates a mock answer generator with default behavior.
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// GenerateAnswer returns a deterministic summary of the retrieved items.
func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, userQuery string, items []*core.LineItemResult) (string, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, userQuery, items)
	}

	return fmt.Sprintf("found %d line items for: %s", len(items), userQuery), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockAnswerGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
}
