package invoicit

import (
	"context"
	"testing"

	"github.com/poiesic/invoicit/ai/mock"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()

	system, err := OpenSystem("",
		WithInMemoryStorage(),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = system.Close() })

	return system
}

func TestOpenSystem(t *testing.T) {
	system, err := OpenSystem(t.TempDir(),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	assert.NotNil(t, system.InvoiceRepository())
	assert.NotNil(t, system.LineItemRepository())
	assert.NotNil(t, system.PlanExecutor())
	assert.NotNil(t, system.Provider())

	require.NoError(t, system.Close())
}

func TestSystemServices(t *testing.T) {
	system := newTestSystem(t)

	pipeline, err := system.NewIngestionPipeline(ingestion.NewTextParser())
	require.NoError(t, err)
	defer pipeline.Release()

	queries, err := system.NewQueryService()
	require.NoError(t, err)
	assert.NotNil(t, queries)

	asker, err := system.NewRetrievalService()
	require.NoError(t, err)
	assert.NotNil(t, asker)
}

func TestSystemEndToEnd(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	invoice, err := system.InvoiceRepository().AddInvoice(ctx, &core.Invoice{
		Filename:      "dell.pdf",
		FileHash:      "hash-dell",
		InvoiceNumber: "INV-1",
		SenderName:    "Dell Technologies",
		Status:        core.StatusCompleted,
	})
	require.NoError(t, err)

	_, err = system.LineItemRepository().AddLineItems(ctx, &core.LineItem{
		InvoiceId:   invoice.Id,
		PageNumber:  1,
		Description: "docking station",
	})
	require.NoError(t, err)

	queries, err := system.NewQueryService()
	require.NoError(t, err)

	results, err := queries.SearchLineItems(ctx, &core.LineItemSearchCriteria{
		SenderName: "dell",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "docking station", results[0].Description)
}
