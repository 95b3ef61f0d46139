package core

// DefaultLineItemLimit is the result cap applied when a line item search does
// not request an explicit limit.
const DefaultLineItemLimit = 20

// LineItemSearchCriteria describes a search over extracted line items.
// It combines free-text semantic terms with structured filters. Invoice-level
// fields (InvoiceNumber, SenderName, InvoiceDateStart/End) constrain the set
// of parent invoices whose items are considered.
type LineItemSearchCriteria struct {
	// QueryText holds semantic search terms. Empty means a purely
	// structured search.
	QueryText string

	// PageNumber filters on one exact page. When set it takes precedence
	// over MinPage/MaxPage.
	PageNumber *int
	// MinPage and MaxPage bound an inclusive page range.
	MinPage *int
	MaxPage *int

	// InvoiceNumber matches the parent invoice's number exactly.
	InvoiceNumber string
	// SenderName matches the parent invoice's sender, case-insensitive
	// substring.
	SenderName string

	// InvoiceDateStart and InvoiceDateEnd bound the parent invoice's issue
	// date, inclusive, as ISO 8601 calendar dates (YYYY-MM-DD).
	InvoiceDateStart string
	InvoiceDateEnd   string

	// MinAmount and MaxAmount bound the line item total, inclusive.
	MinAmount *float64
	MaxAmount *float64

	// Limit caps the number of results. Zero means DefaultLineItemLimit.
	Limit int
}

// Normalize applies the default limit.
func (c *LineItemSearchCriteria) Normalize() {
	if c.Limit == 0 {
		c.Limit = DefaultLineItemLimit
	}
}

// Validate checks the criteria after normalization.
func (c *LineItemSearchCriteria) Validate() error {
	if c.Limit <= 0 {
		return ErrInvalidLimit
	}
	if c.PageNumber != nil && *c.PageNumber < 1 {
		return ErrInvalidPageNumber
	}
	return nil
}

// HasInvoiceFilter reports whether any invoice-level field is set, meaning
// parent context must be resolved before querying line items.
func (c *LineItemSearchCriteria) HasInvoiceFilter() bool {
	return c.InvoiceNumber != "" || c.SenderName != "" ||
		c.InvoiceDateStart != "" || c.InvoiceDateEnd != ""
}

// InvoiceSearchCriteria describes a search over the invoice registry.
// All fields are optional; an empty criteria lists recent invoices.
type InvoiceSearchCriteria struct {
	// InvoiceNumber matches exactly.
	InvoiceNumber string
	// SenderName matches case-insensitive substring.
	SenderName string
	// FilenameQuery matches the stored filename, case-insensitive substring.
	FilenameQuery string
	// Status filters by processing status.
	Status *ProcessingStatus

	// StartDate and EndDate bound the invoice date, inclusive, as ISO 8601
	// calendar dates (YYYY-MM-DD).
	StartDate string
	EndDate   string
}
