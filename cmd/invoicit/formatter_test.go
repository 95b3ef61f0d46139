package main

import (
	"testing"
	"time"

	"github.com/poiesic/invoicit/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatLineItems(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No line items found.", formatLineItems(nil))
	})

	t.Run("full item", func(t *testing.T) {
		qty := 2.0
		price := 120.50
		total := 241.00

		out := formatLineItems([]*core.LineItemResult{{
			Score:         0.8312,
			PageNumber:    3,
			Section:       "Hardware",
			Description:   "docking station",
			ItemCode:      "DS-100",
			Quantity:      &qty,
			QuantityUnit:  "pcs",
			UnitPrice:     &price,
			TotalAmount:   &total,
			InvoiceNumber: "INV-1",
			SenderName:    "Dell Technologies",
			InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}})

		assert.Contains(t, out, "Line Item #1\tscore (0.8312)")
		assert.Contains(t, out, "Page        : 3")
		assert.Contains(t, out, "Quantity    : 2 pcs")
		assert.Contains(t, out, "Unit Price  : 120.50")
		assert.Contains(t, out, "Total       : 241.00")
		assert.Contains(t, out, "Invoice Date: 2024-03-01")
	})

	t.Run("missing optionals", func(t *testing.T) {
		out := formatLineItems([]*core.LineItemResult{{
			Score:       core.SentinelScore,
			PageNumber:  1,
			Description: "misc charge",
		}})

		assert.Contains(t, out, "Item Code   : N/A")
		assert.Contains(t, out, "Quantity    : N/A")
		assert.Contains(t, out, "Total       : N/A")
		assert.Contains(t, out, "Invoice Date: N/A")
	})
}

func TestFormatInvoices(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No invoices found.", formatInvoices(nil))
	})

	t.Run("failed invoice shows error", func(t *testing.T) {
		out := formatInvoices([]*core.InvoiceResult{{
			Filename:     "broken.pdf",
			Status:       core.StatusFailed,
			ErrorMessage: "model unavailable",
		}})

		assert.Contains(t, out, "File        : broken.pdf")
		assert.Contains(t, out, "Error       : model unavailable")
		assert.Contains(t, out, "Invoice No. : N/A")
	})

	t.Run("completed invoice", func(t *testing.T) {
		total := 1299.00
		out := formatInvoices([]*core.InvoiceResult{{
			Filename:      "dell.pdf",
			Status:        core.StatusCompleted,
			InvoiceNumber: "INV-1",
			SenderName:    "Dell Technologies",
			InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Currency:      "EUR",
			TotalAmount:   &total,
		}})

		assert.Contains(t, out, "Date        : 2024-03-01")
		assert.Contains(t, out, "Total       : 1299.00")
		assert.Contains(t, out, "Error       : None")
	})
}
