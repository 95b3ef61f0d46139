package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/ai/mock"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReembedFixture(t *testing.T) (*badger.Repositories, []*core.LineItem) {
	t.Helper()
	ctx := context.Background()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	invoice, err := repos.Invoices.AddInvoice(ctx, &core.Invoice{
		Filename:   "dell.pdf",
		FileHash:   "hash-dell",
		SenderName: "Dell Technologies",
		Status:     core.StatusCompleted,
	})
	require.NoError(t, err)

	items, err := repos.LineItems.AddLineItems(ctx,
		&core.LineItem{
			InvoiceId:   invoice.Id,
			PageNumber:  1,
			Description: "docking station",
			SearchText:  "Context: Dell Technologies | Item: docking station",
			Vector:      []float32{1, 0, 0},
		},
		&core.LineItem{
			InvoiceId:   invoice.Id,
			PageNumber:  2,
			Description: "extended warranty",
			Vector:      []float32{0, 1, 0},
		},
	)
	require.NoError(t, err)

	return repos, items
}

func TestReembedderRun(t *testing.T) {
	repos, items := newReembedFixture(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	var progress bytes.Buffer

	reembedder := NewReembedder(repos.Invoices, repos.LineItems, embedder, &Config{
		BatchSize:      1,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	require.NoError(t, reembedder.Run(ctx))
	assert.Equal(t, 2, embedder.CallCount())
	assert.Contains(t, progress.String(), "Reembedding complete")

	// Vectors were replaced with new normalized embeddings.
	updated, err := repos.LineItems.GetLineItem(ctx, items[0].Id)
	require.NoError(t, err)
	assert.NotEqual(t, []float32{1, 0, 0}, updated.Vector)
	assert.Len(t, updated.Vector, 384)
}

func TestReembedderRunEmptyDatabase(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	var progress bytes.Buffer
	reembedder := NewReembedder(repos.Invoices, repos.LineItems,
		mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, progress.String(), "No line items found")
}

func TestBatchProcessorEmbedsSearchText(t *testing.T) {
	repos, items := newReembedFixture(t)
	ctx := context.Background()

	var embedded []string
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string, mode ai.EmbedMode) ([][]float32, error) {
		embedded = texts
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{3, 4}
		}
		return vectors, nil
	}

	processor := NewBatchProcessor(repos.LineItems, embedder, 1, time.Millisecond)
	require.NoError(t, processor.Process(ctx, items))

	// The stored search text is embedded; items without one fall back to
	// their description.
	require.Len(t, embedded, 2)
	assert.Equal(t, "Context: Dell Technologies | Item: docking station", embedded[0])
	assert.Equal(t, "extended warranty", embedded[1])

	// Stored vectors are normalized.
	updated, err := repos.LineItems.GetLineItem(ctx, items[0].Id)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, updated.Vector[0], 0.001)
	assert.InDelta(t, 0.8, updated.Vector[1], 0.001)
}

func TestItemIterator(t *testing.T) {
	repos, _ := newReembedFixture(t)
	ctx := context.Background()

	t.Run("collect loads everything", func(t *testing.T) {
		iterator := NewItemIterator(repos.Invoices, repos.LineItems, 10)
		all, err := iterator.Collect(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("batches respect size", func(t *testing.T) {
		iterator := NewItemIterator(repos.Invoices, repos.LineItems, 1)

		var batches [][]*core.LineItem
		err := iterator.ForEach(ctx, func(items []*core.LineItem) error {
			batches = append(batches, items)
			return nil
		})
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Len(t, batches[0], 1)
	})

	t.Run("callback error stops iteration", func(t *testing.T) {
		iterator := NewItemIterator(repos.Invoices, repos.LineItems, 1)

		calls := 0
		err := iterator.ForEach(ctx, func(items []*core.LineItem) error {
			calls++
			return errors.New("stop")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
