// Package extraction turns the raw page texts of an invoice document into a
// structured FinalInvoice using a page extraction model.
//
// Single-page documents take a one-shot path. Multi-page documents are
// processed as a sequential chain: each page is extracted with the rolling
// table state reported by the previous page, so tables that span page
// boundaries keep their column mapping and section titles. When one page in
// the chain fails, its state is bridged to the next page and the document is
// still finished with the remaining pages.
package extraction
