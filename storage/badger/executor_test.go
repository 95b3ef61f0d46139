package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

// seedRetrievalData loads two invoices with line items carrying simple
// orthogonal-ish vectors so ranking order is predictable.
func seedRetrievalData(t *testing.T, repos *Repositories) (dell, amazon *core.Invoice) {
	t.Helper()
	ctx := context.Background()

	var err error
	dell, err = repos.Invoices.AddInvoice(ctx, &core.Invoice{
		Filename:      "dell_march.pdf",
		FileHash:      "h-dell",
		InvoiceNumber: "INV-1",
		SenderName:    "Dell Technologies",
		InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:        core.StatusCompleted,
	})
	require.NoError(t, err)

	amazon, err = repos.Invoices.AddInvoice(ctx, &core.Invoice{
		Filename:      "aws_jan.pdf",
		FileHash:      "h-aws",
		InvoiceNumber: "INV-2",
		SenderName:    "Amazon Web Services",
		InvoiceDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:        core.StatusCompleted,
	})
	require.NoError(t, err)

	_, err = repos.LineItems.AddLineItems(ctx,
		&core.LineItem{
			InvoiceId: dell.Id, PageNumber: 1, Description: "server maintenance",
			TotalAmount: floatPtr(500), Vector: []float32{1, 0, 0},
		},
		&core.LineItem{
			InvoiceId: dell.Id, PageNumber: 2, Description: "patch cables",
			TotalAmount: floatPtr(50), Vector: []float32{0, 1, 0},
		},
		&core.LineItem{
			InvoiceId: amazon.Id, PageNumber: 1, Description: "cloud compute",
			TotalAmount: floatPtr(1200), Vector: []float32{0.9, 0.1, 0},
		},
	)
	require.NoError(t, err)
	return dell, amazon
}

func TestExecutorEmptyStage(t *testing.T) {
	repos := newTestRepos(t)
	seedRetrievalData(t, repos)

	items, err := repos.Executor.ExecuteLineItemPlan(context.Background(), storage.RetrievalPlan{
		storage.EmptyStage{},
		storage.ProjectLineItemsStage{},
	})
	require.NoError(t, err)
	assert.Empty(t, items)

	invs, err := repos.Executor.ExecuteInvoicePlan(context.Background(), storage.RetrievalPlan{
		storage.EmptyStage{},
		storage.ProjectInvoicesStage{},
	})
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestExecutorVectorPlan(t *testing.T) {
	repos := newTestRepos(t)
	dell, amazon := seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.VectorStage{
			Vector:        []float32{1, 0, 0},
			NumCandidates: 100,
			Limit:         2,
		},
		storage.JoinInvoiceStage{},
		storage.ProjectLineItemsStage{},
	}

	results, err := repos.Executor.ExecuteLineItemPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ranked by similarity: exact match first, near match second
	assert.Equal(t, "server maintenance", results[0].Description)
	assert.Equal(t, "cloud compute", results[1].Description)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Join attached parent invoice fields
	assert.Equal(t, "INV-1", results[0].InvoiceNumber)
	assert.Equal(t, dell.Id, results[0].InvoiceId)
	assert.Equal(t, amazon.Id, results[1].InvoiceId)
}

func TestExecutorVectorPlanWithFilter(t *testing.T) {
	repos := newTestRepos(t)
	dell, _ := seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.VectorStage{
			Vector:        []float32{1, 0, 0},
			Filter:        storage.LineItemFilter{InvoiceIDs: []core.ID{dell.Id}},
			NumCandidates: 100,
			Limit:         10,
		},
		storage.JoinInvoiceStage{},
		storage.ProjectLineItemsStage{},
	}

	results, err := repos.Executor.ExecuteLineItemPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, dell.Id, r.InvoiceId)
	}
}

func TestExecutorStructuredPlanSentinelScore(t *testing.T) {
	repos := newTestRepos(t)
	dell, _ := seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.MatchLineItemsStage{
			Filter: storage.LineItemFilter{InvoiceIDs: []core.ID{dell.Id}},
		},
		storage.SortStage{Order: storage.OrderByInvoiceThenPage},
		storage.LimitStage{N: 20},
		storage.JoinInvoiceStage{},
		storage.ProjectLineItemsStage{SentinelScore: true},
	}

	results, err := repos.Executor.ExecuteLineItemPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Structured results carry the fixed score and page order
	assert.Equal(t, core.SentinelScore, results[0].Score)
	assert.Equal(t, 1, results[0].PageNumber)
	assert.Equal(t, 2, results[1].PageNumber)
}

func TestExecutorStructuredPlanAmountFilter(t *testing.T) {
	repos := newTestRepos(t)
	seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.MatchLineItemsStage{
			Filter: storage.LineItemFilter{MinAmount: floatPtr(400)},
		},
		storage.SortStage{Order: storage.OrderByInvoiceThenPage},
		storage.LimitStage{N: 20},
		storage.JoinInvoiceStage{},
		storage.ProjectLineItemsStage{SentinelScore: true},
	}

	results, err := repos.Executor.ExecuteLineItemPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "server maintenance", results[0].Description)
	assert.Equal(t, "cloud compute", results[1].Description)
}

func TestExecutorInvoicePlan(t *testing.T) {
	repos := newTestRepos(t)
	seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.MatchInvoicesStage{Filter: storage.InvoiceFilter{}},
		storage.SortStage{Order: storage.OrderByInvoiceDateDesc},
		storage.LimitStage{N: 50},
		storage.ProjectInvoicesStage{},
	}

	results, err := repos.Executor.ExecuteInvoicePlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Newest invoice date first
	assert.Equal(t, "INV-1", results[0].InvoiceNumber)
	assert.Equal(t, "INV-2", results[1].InvoiceNumber)
}

func TestExecutorInvoicePlanFiltered(t *testing.T) {
	repos := newTestRepos(t)
	seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.MatchInvoicesStage{Filter: storage.InvoiceFilter{SenderName: "amazon"}},
		storage.SortStage{Order: storage.OrderByInvoiceDateDesc},
		storage.LimitStage{N: 50},
		storage.ProjectInvoicesStage{},
	}

	results, err := repos.Executor.ExecuteInvoicePlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Amazon Web Services", results[0].SenderName)
}

func TestExecutorRejectsMismatchedStages(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Executor.ExecuteLineItemPlan(context.Background(), storage.RetrievalPlan{
		storage.MatchInvoicesStage{},
		storage.ProjectLineItemsStage{},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidPlan)

	_, err = repos.Executor.ExecuteInvoicePlan(context.Background(), storage.RetrievalPlan{
		storage.VectorStage{Vector: []float32{1}},
		storage.ProjectInvoicesStage{},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidPlan)

	t.Run("missing projection", func(t *testing.T) {
		_, err := repos.Executor.ExecuteLineItemPlan(context.Background(), storage.RetrievalPlan{
			storage.MatchLineItemsStage{},
		})
		assert.ErrorIs(t, err, storage.ErrInvalidPlan)
	})
}

func TestExecutorExactPageBeatsRange(t *testing.T) {
	repos := newTestRepos(t)
	dell, _ := seedRetrievalData(t, repos)

	plan := storage.RetrievalPlan{
		storage.MatchLineItemsStage{
			Filter: storage.LineItemFilter{
				InvoiceIDs: []core.ID{dell.Id},
				PageNumber: intPtr(2),
				MinPage:    intPtr(90),
				MaxPage:    intPtr(99),
			},
		},
		storage.SortStage{Order: storage.OrderByInvoiceThenPage},
		storage.LimitStage{N: 20},
		storage.JoinInvoiceStage{},
		storage.ProjectLineItemsStage{SentinelScore: true},
	}

	results, err := repos.Executor.ExecuteLineItemPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "patch cables", results[0].Description)
}
