package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

// BatchProcessor handles embedding generation for batches of line items.
type BatchProcessor struct {
	lineItems      storage.LineItemRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(lineItems storage.LineItemRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		lineItems:      lineItems,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates vectors for a batch of line items and updates them in
// storage. The stored search text is what gets embedded; items predating
// search text construction fall back to their description.
func (bp *BatchProcessor) Process(ctx context.Context, items []*core.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.SearchText
		if texts[i] == "" {
			texts[i] = item.Description
		}
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts, ai.EmbedPassage)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(items), len(embeddings))
	}

	for i := range items {
		items[i].Vector = NormalizeVector(embeddings[i])
	}

	if _, err := bp.lineItems.UpdateLineItems(ctx, items...); err != nil {
		return fmt.Errorf("failed to update line items: %w", err)
	}

	return nil
}
