package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

// LineItemRepository implements storage.LineItemRepository for BadgerDB.
type LineItemRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.LineItemRepository = (*LineItemRepository)(nil)

// NewLineItemRepository creates a new LineItemRepository.
func NewLineItemRepository(backend *Backend) (*LineItemRepository, error) {
	idSeq, err := backend.GetSequence(lineItemIDSeq)
	if err != nil {
		return nil, err
	}

	return &LineItemRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *LineItemRepository) Close() error {
	return r.idSeq.Release()
}

// AddLineItems adds one or more line items to storage.
func (r *LineItemRepository) AddLineItems(ctx context.Context, items ...*core.LineItem) ([]*core.LineItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			if item.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				item.Id = core.ID(nextID)
			}

			if item.InsertedAt.IsZero() {
				item.InsertedAt = time.Now().UTC()
			}
			item.UpdatedAt = item.InsertedAt

			key := makeLineItemKey(item.Id)
			if err := tx.Set(key, storage.MarshalLineItem(item)); err != nil {
				return err
			}

			// Update invoice index
			invKey := makeLineItemInvoiceKey(item.InvoiceId, item.Id)
			if err := tx.Set(invKey, storage.MarshalID(item.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateLineItems updates existing line items in place.
func (r *LineItemRepository) UpdateLineItems(ctx context.Context, items ...*core.LineItem) ([]*core.LineItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			key := makeLineItemKey(item.Id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}

			item.UpdatedAt = time.Now().UTC()
			if err := tx.Set(key, storage.MarshalLineItem(item)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetLineItem retrieves a single line item by ID.
func (r *LineItemRepository) GetLineItem(ctx context.Context, id core.ID) (*core.LineItem, error) {
	var result *core.LineItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readLineItem(tx, makeLineItemKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetLineItems retrieves multiple line items by their IDs.
func (r *LineItemRepository) GetLineItems(ctx context.Context, ids ...core.ID) ([]*core.LineItem, error) {
	var result []*core.LineItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := readLineItem(tx, makeLineItemKey(id))
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetLineItemsByInvoice retrieves all line items belonging to an invoice,
// ordered by page number then insertion order.
func (r *LineItemRepository) GetLineItemsByInvoice(ctx context.Context, invoiceID core.ID) ([]*core.LineItem, error) {
	var results []*core.LineItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialLineItemInvoiceKey(invoiceID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			item, err := readLineItem(tx, makeLineItemKey(itemID))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// The index yields insertion order; page order is what callers read by
	slices.SortStableFunc(results, func(a, b *core.LineItem) int {
		return a.PageNumber - b.PageNumber
	})
	return results, nil
}

// DeleteLineItemsByInvoice removes all line items belonging to an invoice.
func (r *LineItemRepository) DeleteLineItemsByInvoice(ctx context.Context, invoiceID core.ID) (int, error) {
	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialLineItemInvoiceKey(invoiceID)

		// Collect first, then delete: badger iterators must not observe
		// writes made in the same loop.
		var indexKeys [][]byte
		var itemIDs []core.ID

		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}
			indexKeys = append(indexKeys, iter.Item().KeyCopy(nil))
			itemIDs = append(itemIDs, itemID)
		}
		iter.Close()

		for i, itemID := range itemIDs {
			if err := tx.Delete(makeLineItemKey(itemID)); err != nil {
				return err
			}
			if err := tx.Delete(indexKeys[i]); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// scanLineItems visits every line item record in the store.
func (r *LineItemRepository) scanLineItems(visit func(*core.LineItem)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(lineItemPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var item *core.LineItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalLineItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if item != nil {
				visit(item)
			}
		}
		return nil
	}, false)
}

// readLineItem reads a line item from the transaction.
func readLineItem(tx *badger.Txn, key []byte) (*core.LineItem, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.LineItem
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalLineItem(val)
		return unmarshalErr
	})
	return record, err
}
