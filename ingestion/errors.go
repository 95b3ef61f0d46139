package ingestion

import "errors"

var (
	// ErrInvoiceRepositoryRequired is returned when a Pipeline is constructed
	// without an invoice repository.
	ErrInvoiceRepositoryRequired = errors.New("invoice repository is required")

	// ErrLineItemRepositoryRequired is returned when a Pipeline is
	// constructed without a line item repository.
	ErrLineItemRepositoryRequired = errors.New("line item repository is required")

	// ErrParserRequired is returned when a Pipeline is constructed without a
	// document parser.
	ErrParserRequired = errors.New("document parser is required")

	// ErrProviderRequired is returned when a Pipeline is constructed without
	// an AI provider.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrEmptyDocument is returned when parsing produces no pages.
	ErrEmptyDocument = errors.New("document contains no pages")
)
