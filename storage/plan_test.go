package storage

import (
	"testing"
	"time"

	"github.com/poiesic/invoicit/core"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestLineItemFilterIsZero(t *testing.T) {
	assert.True(t, LineItemFilter{}.IsZero())
	assert.False(t, LineItemFilter{InvoiceIDs: []core.ID{}}.IsZero())
	assert.False(t, LineItemFilter{PageNumber: intPtr(3)}.IsZero())
	assert.False(t, LineItemFilter{MinAmount: floatPtr(10)}.IsZero())
}

func TestLineItemFilterMatches(t *testing.T) {
	amount := 250.0
	item := &core.LineItem{
		InvoiceId:   7,
		PageNumber:  4,
		TotalAmount: &amount,
	}

	t.Run("zero filter matches everything", func(t *testing.T) {
		assert.True(t, LineItemFilter{}.Matches(item))
	})

	t.Run("invoice id set", func(t *testing.T) {
		assert.True(t, LineItemFilter{InvoiceIDs: []core.ID{3, 7}}.Matches(item))
		assert.False(t, LineItemFilter{InvoiceIDs: []core.ID{3, 5}}.Matches(item))
		// Empty non-nil set matches nothing
		assert.False(t, LineItemFilter{InvoiceIDs: []core.ID{}}.Matches(item))
	})

	t.Run("exact page wins over range", func(t *testing.T) {
		f := LineItemFilter{
			PageNumber: intPtr(4),
			MinPage:    intPtr(10),
			MaxPage:    intPtr(20),
		}
		assert.True(t, f.Matches(item))

		f.PageNumber = intPtr(5)
		assert.False(t, f.Matches(item))
	})

	t.Run("page range inclusive", func(t *testing.T) {
		assert.True(t, LineItemFilter{MinPage: intPtr(4), MaxPage: intPtr(4)}.Matches(item))
		assert.False(t, LineItemFilter{MinPage: intPtr(5)}.Matches(item))
		assert.False(t, LineItemFilter{MaxPage: intPtr(3)}.Matches(item))
	})

	t.Run("amount bounds inclusive", func(t *testing.T) {
		assert.True(t, LineItemFilter{MinAmount: floatPtr(250), MaxAmount: floatPtr(250)}.Matches(item))
		assert.False(t, LineItemFilter{MinAmount: floatPtr(250.01)}.Matches(item))
		assert.False(t, LineItemFilter{MaxAmount: floatPtr(249.99)}.Matches(item))
	})

	t.Run("missing amount fails amount bounds", func(t *testing.T) {
		noAmount := &core.LineItem{InvoiceId: 7, PageNumber: 1}
		assert.False(t, LineItemFilter{MinAmount: floatPtr(0)}.Matches(noAmount))
		assert.False(t, LineItemFilter{MaxAmount: floatPtr(1000)}.Matches(noAmount))
	})
}

func TestInvoiceFilterMatches(t *testing.T) {
	status := core.StatusCompleted
	inv := &core.Invoice{
		Id:            1,
		Filename:      "dell_march_2024.pdf",
		InvoiceNumber: "INV-2024-001",
		SenderName:    "Dell Technologies",
		InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:        core.StatusCompleted,
	}

	t.Run("zero filter matches everything", func(t *testing.T) {
		assert.True(t, InvoiceFilter{}.IsZero())
		assert.True(t, InvoiceFilter{}.Matches(inv))
	})

	t.Run("invoice number exact", func(t *testing.T) {
		assert.True(t, InvoiceFilter{InvoiceNumber: "INV-2024-001"}.Matches(inv))
		assert.False(t, InvoiceFilter{InvoiceNumber: "INV-2024-002"}.Matches(inv))
	})

	t.Run("sender fuzzy case-insensitive", func(t *testing.T) {
		assert.True(t, InvoiceFilter{SenderName: "dell"}.Matches(inv))
		assert.True(t, InvoiceFilter{SenderName: "TECHNOLOGIES"}.Matches(inv))
		assert.False(t, InvoiceFilter{SenderName: "amazon"}.Matches(inv))
	})

	t.Run("filename substring", func(t *testing.T) {
		assert.True(t, InvoiceFilter{FilenameQuery: "march"}.Matches(inv))
		assert.False(t, InvoiceFilter{FilenameQuery: "april"}.Matches(inv))
	})

	t.Run("status", func(t *testing.T) {
		assert.True(t, InvoiceFilter{Status: &status}.Matches(inv))
		failed := core.StatusFailed
		assert.False(t, InvoiceFilter{Status: &failed}.Matches(inv))
	})

	t.Run("date bounds inclusive", func(t *testing.T) {
		day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, InvoiceFilter{DateFrom: day, DateTo: day}.Matches(inv))
		assert.False(t, InvoiceFilter{DateFrom: day.AddDate(0, 0, 1)}.Matches(inv))
		assert.False(t, InvoiceFilter{DateTo: day.AddDate(0, 0, -1)}.Matches(inv))
	})

	t.Run("unknown invoice date never matches date bounds", func(t *testing.T) {
		unknown := &core.Invoice{Id: 2, Filename: "x.pdf"}
		assert.True(t, InvoiceFilter{}.Matches(unknown))
		assert.False(t, InvoiceFilter{DateFrom: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}.Matches(unknown))
	})
}
