package extraction

import (
	"testing"

	"github.com/poiesic/invoicit/ai"
	"github.com/stretchr/testify/assert"
)

func TestMergeContext(t *testing.T) {
	t.Run("fills empty fields", func(t *testing.T) {
		target := ai.InvoiceContext{InvoiceNumber: "INV-1"}
		MergeContext(&target, &ai.InvoiceContext{
			InvoiceNumber: "INV-2",
			SenderName:    "Dell",
			Currency:      "EUR",
		})

		assert.Equal(t, "INV-1", target.InvoiceNumber)
		assert.Equal(t, "Dell", target.SenderName)
		assert.Equal(t, "EUR", target.Currency)
	})

	t.Run("empty source changes nothing", func(t *testing.T) {
		target := ai.InvoiceContext{SenderName: "Amazon", TotalAmount: "12.50"}
		MergeContext(&target, &ai.InvoiceContext{})

		assert.Equal(t, "Amazon", target.SenderName)
		assert.Equal(t, "12.50", target.TotalAmount)
	})

	t.Run("nil source is a no-op", func(t *testing.T) {
		target := ai.InvoiceContext{InvoiceDate: "2024-03-01"}
		MergeContext(&target, nil)

		assert.Equal(t, "2024-03-01", target.InvoiceDate)
	})
}
