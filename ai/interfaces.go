package ai

import (
	"context"

	"github.com/poiesic/invoicit/core"
)

// EmbedMode selects the embedding task type. Passage embeddings index stored
// content; query embeddings represent search input. Using the matching mode on
// both sides improves retrieval quality on models that distinguish them.
type EmbedMode int

const (
	// EmbedPassage embeds text that will be stored and searched against.
	EmbedPassage EmbedMode = iota + 1
	// EmbedQuery embeds a search query.
	EmbedQuery
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the provider fails or returns no vector.
	EmbedText(ctx context.Context, text string, mode EmbedMode) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in input order.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error)
}

// PageExtractor extracts structured invoice data from page text.
// Implementations must be thread-safe for concurrent use.
type PageExtractor interface {
	// ExtractPage processes one page of a multi-page document. The previous
	// page's state is presented to the model so that tables spanning page
	// boundaries are continued correctly. The result carries the state the
	// next page should see.
	ExtractPage(ctx context.Context, pageText string, previous PageState) (*PageExtraction, error)

	// ExtractSingle processes a complete single-page document in one shot,
	// with no chaining overhead.
	ExtractSingle(ctx context.Context, pageText string) (*SinglePageExtraction, error)
}

// Route is the outcome of intent routing for a natural-language question.
// Exactly one field is set.
type Route struct {
	// Answer is a direct textual reply when no search is needed.
	Answer string
	// LineItems requests a line item search with the extracted filters.
	LineItems *core.LineItemSearchCriteria
	// Invoices requests an invoice registry search.
	Invoices *core.InvoiceSearchCriteria
}

// QueryRouter decides whether a question targets line items, the invoice
// registry, or needs no search at all, and extracts structured filters.
type QueryRouter interface {
	Route(ctx context.Context, userQuery string) (*Route, error)
}

// AnswerGenerator produces a natural-language answer grounded in retrieved
// line items.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, userQuery string, items []*core.LineItemResult) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages its service instances, ensuring
// they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// PageExtractor returns the invoice extraction service.
	PageExtractor() PageExtractor

	// QueryRouter returns the intent routing service.
	QueryRouter() QueryRouter

	// AnswerGenerator returns the answer generation service.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
