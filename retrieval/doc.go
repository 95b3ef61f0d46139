// Package retrieval answers natural language questions about ingested
// invoices. A query router classifies each question as either directly
// answerable, a line item search, or an invoice search; searches run through
// the query service, and line item results can optionally be summarized into
// a natural language answer with source citations.
package retrieval
