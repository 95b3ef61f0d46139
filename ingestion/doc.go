// Package ingestion turns invoice documents into stored, searchable records.
//
// A Pipeline parses a document into pages, runs page extraction over them,
// persists the invoice and its line items, and embeds each line item's
// search text for semantic retrieval. Documents already ingested are
// detected by file hash and skipped. Batches fan out over a bounded worker
// pool so independent documents are processed concurrently.
package ingestion
