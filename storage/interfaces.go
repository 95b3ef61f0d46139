package storage

import (
	"context"

	"github.com/poiesic/invoicit/core"
)

// InvoiceRepository provides operations for managing invoice registry records.
// Implementations must be thread-safe and support concurrent access.
type InvoiceRepository interface {
	// AddInvoice adds an invoice to storage.
	// For an invoice with ID=0, generates a new ID from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns ErrDuplicateFile if an invoice with the same file hash exists.
	AddInvoice(ctx context.Context, invoice *core.Invoice) (*core.Invoice, error)

	// UpdateInvoice updates an existing invoice.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the invoice doesn't exist.
	UpdateInvoice(ctx context.Context, invoice *core.Invoice) (*core.Invoice, error)

	// GetInvoice retrieves a single invoice by ID.
	// Returns ErrNotFound if the invoice doesn't exist.
	GetInvoice(ctx context.Context, id core.ID) (*core.Invoice, error)

	// GetInvoiceByHash retrieves an invoice by its file content hash.
	// Returns ErrNotFound if no invoice with that hash exists.
	GetInvoiceByHash(ctx context.Context, fileHash string) (*core.Invoice, error)

	// FindInvoiceIDs returns the IDs of all invoices matching the filter,
	// without loading full records into the result.
	FindInvoiceIDs(ctx context.Context, filter InvoiceFilter) ([]core.ID, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// LineItemRepository provides operations for managing extracted line items.
// Implementations must be thread-safe and support concurrent access.
type LineItemRepository interface {
	// AddLineItems adds one or more line items to storage.
	// For items with ID=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the items with generated IDs and timestamps populated.
	AddLineItems(ctx context.Context, items ...*core.LineItem) ([]*core.LineItem, error)

	// GetLineItem retrieves a single line item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetLineItem(ctx context.Context, id core.ID) (*core.LineItem, error)

	// GetLineItems retrieves multiple line items by their IDs.
	// Returns only the items that exist (no error for missing items).
	GetLineItems(ctx context.Context, ids ...core.ID) ([]*core.LineItem, error)

	// GetLineItemsByInvoice retrieves all line items belonging to an invoice,
	// ordered by page number then insertion order.
	GetLineItemsByInvoice(ctx context.Context, invoiceID core.ID) ([]*core.LineItem, error)

	// UpdateLineItems updates existing line items in place.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any item doesn't exist.
	UpdateLineItems(ctx context.Context, items ...*core.LineItem) ([]*core.LineItem, error)

	// DeleteLineItemsByInvoice removes all line items belonging to an invoice.
	// Returns the number of items removed.
	DeleteLineItemsByInvoice(ctx context.Context, invoiceID core.ID) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// PlanExecutor runs retrieval plans against the backend.
type PlanExecutor interface {
	// ExecuteLineItemPlan runs a plan whose terminal projection is line items.
	ExecuteLineItemPlan(ctx context.Context, plan RetrievalPlan) ([]*core.LineItemResult, error)

	// ExecuteInvoicePlan runs a plan whose terminal projection is invoices.
	ExecuteInvoicePlan(ctx context.Context, plan RetrievalPlan) ([]*core.InvoiceResult, error)
}
