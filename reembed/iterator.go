// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"

	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

const (
	// DefaultBatchSize is the default number of line items to process in
	// each batch
	DefaultBatchSize = 100
)

// ItemIterator iterates over all stored line items in batches, grouped by
// their parent invoice.
type ItemIterator struct {
	invoices  storage.InvoiceRepository
	lineItems storage.LineItemRepository
	batchSize int
}

// NewItemIterator creates a new line item iterator.
// batchSize: number of items to pass to each callback (must be > 0)
func NewItemIterator(invoices storage.InvoiceRepository, lineItems storage.LineItemRepository, batchSize int) *ItemIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ItemIterator{
		invoices:  invoices,
		lineItems: lineItems,
		batchSize: batchSize,
	}
}

// Collect loads every stored line item, in invoice then page order.
func (it *ItemIterator) Collect(ctx context.Context) ([]*core.LineItem, error) {
	ids, err := it.invoices.FindInvoiceIDs(ctx, storage.InvoiceFilter{})
	if err != nil {
		return nil, err
	}

	var all []*core.LineItem
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := it.lineItems.GetLineItemsByInvoice(ctx, id)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}

// ForEach iterates over all line items, calling fn for each batch.
// Iteration stops on first error from fn or when all items are processed.
// Context cancellation is checked between batches.
func (it *ItemIterator) ForEach(ctx context.Context, fn func([]*core.LineItem) error) error {
	items, err := it.Collect(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < len(items); i += it.batchSize {
		end := i + it.batchSize
		if end > len(items) {
			end = len(items)
		}

		if err := fn(items[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
