// Package reembed regenerates the vectors of stored line items with a new
// or updated embedding model.
//
// Line items are processed in batches with progress tracking and retry logic
// with exponential backoff. Vectors are normalized after embedding so cosine
// similarity search keeps working across model changes.
package reembed
