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

package query

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/ai/mock"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	repos    *badger.Repositories
	embedder *mock.MockEmbedder
	service  *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	embedder := mock.NewMockEmbedder()
	service, err := NewService(repos.Executor, repos.Invoices, embedder)
	require.NoError(t, err)

	return &serviceFixture{repos: repos, embedder: embedder, service: service}
}

func (f *serviceFixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	dell, err := f.repos.Invoices.AddInvoice(ctx, &core.Invoice{
		Filename:      "dell.pdf",
		FileHash:      "hash-dell",
		InvoiceNumber: "INV-1",
		SenderName:    "Dell Technologies",
		InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:        core.StatusCompleted,
	})
	require.NoError(t, err)

	amazon, err := f.repos.Invoices.AddInvoice(ctx, &core.Invoice{
		Filename:      "amazon.pdf",
		FileHash:      "hash-amazon",
		InvoiceNumber: "INV-2",
		SenderName:    "Amazon Web Services",
		InvoiceDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:        core.StatusCompleted,
	})
	require.NoError(t, err)

	vecFor := func(text string) []float32 {
		v, err := f.embedder.EmbedText(ctx, text, ai.EmbedPassage)
		require.NoError(t, err)
		return v
	}

	_, err = f.repos.LineItems.AddLineItems(ctx,
		&core.LineItem{
			InvoiceId:   dell.Id,
			PageNumber:  1,
			Description: "laptop docking station",
			Vector:      vecFor("laptop docking station"),
		},
		&core.LineItem{
			InvoiceId:   dell.Id,
			PageNumber:  2,
			Description: "extended warranty",
			Vector:      vecFor("extended warranty"),
		},
		&core.LineItem{
			InvoiceId:   amazon.Id,
			PageNumber:  1,
			Description: "compute usage",
			Vector:      vecFor("compute usage"),
		},
	)
	require.NoError(t, err)

	// Seeding embedded passages; searches start from a clean count.
	f.embedder.Reset()
}

func TestNewService(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	t.Run("requires executor", func(t *testing.T) {
		_, err := NewService(nil, repos.Invoices, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrExecutorRequired)
	})

	t.Run("requires invoice repository", func(t *testing.T) {
		_, err := NewService(repos.Executor, nil, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrInvoiceRepositoryRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewService(repos.Executor, repos.Invoices, nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})
}

func TestSearchLineItemsSemantic(t *testing.T) {
	f := newServiceFixture(t)
	f.seed(t)

	results, err := f.service.SearchLineItems(context.Background(), &core.LineItemSearchCriteria{
		QueryText: "laptop docking station",
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// The exact-match passage ranks first and carries a real similarity score.
	assert.Equal(t, "laptop docking station", results[0].Description)
	assert.Equal(t, "INV-1", results[0].InvoiceNumber)
	assert.Equal(t, "Dell Technologies", results[0].SenderName)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)
	assert.Equal(t, 1, f.embedder.CallCount())
}

func TestSearchLineItemsStructured(t *testing.T) {
	f := newServiceFixture(t)
	f.seed(t)

	results, err := f.service.SearchLineItems(context.Background(), &core.LineItemSearchCriteria{
		SenderName: "dell",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by invoice then page, all at the sentinel score.
	assert.Equal(t, "laptop docking station", results[0].Description)
	assert.Equal(t, "extended warranty", results[1].Description)
	for _, r := range results {
		assert.Equal(t, core.SentinelScore, r.Score)
	}
	assert.Equal(t, 0, f.embedder.CallCount(), "structured search must not embed")
}

func TestSearchLineItemsEmptyInvoiceContext(t *testing.T) {
	f := newServiceFixture(t)
	f.seed(t)

	results, err := f.service.SearchLineItems(context.Background(), &core.LineItemSearchCriteria{
		QueryText:  "laptop",
		SenderName: "no such vendor",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, f.embedder.CallCount())
}

func TestSearchLineItemsInvalidDate(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.SearchLineItems(context.Background(), &core.LineItemSearchCriteria{
		SenderName:       "Dell",
		InvoiceDateStart: "01/03/2024",
	})
	require.Error(t, err)

	var dateErr *InvalidDateFormatError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "invoice_date_start", dateErr.Field)
}

func TestSearchLineItemsValidation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.SearchLineItems(context.Background(), &core.LineItemSearchCriteria{
		QueryText: "x",
		Limit:     -1,
	})
	assert.Error(t, err)
}

func TestSearchNilCriteria(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.SearchLineItems(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCriteriaRequired)

	_, err = f.service.SearchLineItemsWithEmbedding(context.Background(), nil, []float32{1})
	assert.ErrorIs(t, err, ErrCriteriaRequired)

	_, err = f.service.SearchInvoices(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCriteriaRequired)
}

func TestSearchLineItemsEmbeddingWithoutQueryText(t *testing.T) {
	f := newServiceFixture(t)
	f.seed(t)

	// A supplied embedding only ranks when the criteria carry query text
	results, err := f.service.SearchLineItemsWithEmbedding(context.Background(),
		&core.LineItemSearchCriteria{}, []float32{0.5, 0.5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, float32(1.0), r.Score)
	}
}

func TestSearchInvoices(t *testing.T) {
	f := newServiceFixture(t)
	f.seed(t)

	t.Run("all invoices newest first", func(t *testing.T) {
		results, err := f.service.SearchInvoices(context.Background(), &core.InvoiceSearchCriteria{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "INV-1", results[0].InvoiceNumber)
		assert.Equal(t, "INV-2", results[1].InvoiceNumber)
	})

	t.Run("date window", func(t *testing.T) {
		results, err := f.service.SearchInvoices(context.Background(), &core.InvoiceSearchCriteria{
			StartDate: "2024-02-01",
			EndDate:   "2024-12-31",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dell Technologies", results[0].SenderName)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := f.service.SearchInvoices(context.Background(), &core.InvoiceSearchCriteria{
			EndDate: "yesterday",
		})
		var dateErr *InvalidDateFormatError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "end_date", dateErr.Field)
	})
}

func TestResolveInvoiceContext(t *testing.T) {
	f := newServiceFixture(t)
	f.seed(t)
	ctx := context.Background()

	t.Run("no invoice filter stays unconstrained", func(t *testing.T) {
		criteria := normalized(&core.LineItemSearchCriteria{QueryText: "anything"})
		rc, err := resolveInvoiceContext(ctx, f.repos.Invoices, criteria)
		require.NoError(t, err)
		assert.False(t, rc.IsConstrained())
	})

	t.Run("sender filter resolves to IDs", func(t *testing.T) {
		criteria := normalized(&core.LineItemSearchCriteria{SenderName: "amazon"})
		rc, err := resolveInvoiceContext(ctx, f.repos.Invoices, criteria)
		require.NoError(t, err)
		assert.True(t, rc.IsConstrained())
		require.Len(t, rc.IDs(), 1)
	})

	t.Run("unmatched filter resolves to empty set", func(t *testing.T) {
		criteria := normalized(&core.LineItemSearchCriteria{InvoiceNumber: "INV-999"})
		rc, err := resolveInvoiceContext(ctx, f.repos.Invoices, criteria)
		require.NoError(t, err)
		assert.True(t, rc.IsEmpty())
	})
}
