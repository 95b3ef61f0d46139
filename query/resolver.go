package query

import (
	"context"
	"time"

	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

// resolveInvoiceContext maps the invoice-level fields of a line item search
// onto a set of parent invoice IDs. Returns Unconstrained when no invoice
// field is set.
func resolveInvoiceContext(ctx context.Context, repo storage.InvoiceRepository, criteria *core.LineItemSearchCriteria) (ResolvedContext, error) {
	if !criteria.HasInvoiceFilter() {
		return Unconstrained(), nil
	}

	dateFrom, err := parseDateFilter(criteria.InvoiceDateStart, "invoice_date_start")
	if err != nil {
		return ResolvedContext{}, err
	}
	dateTo, err := parseDateFilter(criteria.InvoiceDateEnd, "invoice_date_end")
	if err != nil {
		return ResolvedContext{}, err
	}

	ids, err := repo.FindInvoiceIDs(ctx, storage.InvoiceFilter{
		InvoiceNumber: criteria.InvoiceNumber,
		SenderName:    criteria.SenderName,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
	})
	if err != nil {
		return ResolvedContext{}, &DatabaseQueryError{Op: "invoice context resolution", Err: err}
	}

	return IDSet(ids), nil
}

// parseDateFilter parses an optional ISO 8601 date filter. The empty string
// means no bound.
func parseDateFilter(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := core.ParseISODate(value)
	if err != nil {
		return time.Time{}, &InvalidDateFormatError{Field: field, Value: value}
	}
	return t, nil
}
