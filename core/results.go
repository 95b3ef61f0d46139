package core

import "time"

// SentinelScore is the relevance score reported for results of purely
// structured searches, where no vector similarity was computed. Downstream
// formatters print the score unconditionally, so it stays an explicit value
// rather than an absent one.
const SentinelScore float32 = 1.0

// LineItemResult is a flattened, read-only projection of a line item joined
// with selected fields of its parent invoice.
type LineItemResult struct {
	// Score is the vector similarity when a vector search ran, otherwise
	// SentinelScore.
	Score float32

	InvoiceId ID

	PageNumber  int
	Description string
	Section     string

	ItemCode     string
	DeliveryDate string
	Quantity     *float64
	QuantityUnit string
	UnitPrice    *float64
	TotalAmount  *float64

	// Flattened from the parent invoice.
	InvoiceNumber string
	SenderName    string
	InvoiceDate   time.Time
}

// InvoiceResult is the fixed projection returned by invoice searches.
type InvoiceResult struct {
	InvoiceNumber string
	SenderName    string
	InvoiceDate   time.Time
	TotalAmount   *float64
	Currency      string
	Status        ProcessingStatus
	Filename      string
	ErrorMessage  string
}
