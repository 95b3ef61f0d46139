package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

// InvoiceRepository implements storage.InvoiceRepository for BadgerDB.
type InvoiceRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.InvoiceRepository = (*InvoiceRepository)(nil)

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(backend *Backend) (*InvoiceRepository, error) {
	idSeq, err := backend.GetSequence(invoiceIDSeq)
	if err != nil {
		return nil, err
	}

	return &InvoiceRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *InvoiceRepository) Close() error {
	return r.idSeq.Release()
}

// AddInvoice adds an invoice to storage and registers its file hash in the
// unique hash index.
func (r *InvoiceRepository) AddInvoice(ctx context.Context, invoice *core.Invoice) (*core.Invoice, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// The hash index enforces one record per file content
		hashKey := makeInvoiceHashKey(invoice.FileHash)
		if _, err := tx.Get(hashKey); err == nil {
			return storage.ErrDuplicateFile
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if invoice.Id == 0 {
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
			invoice.Id = core.ID(nextID)
		}

		if invoice.InsertedAt.IsZero() {
			invoice.InsertedAt = time.Now().UTC()
		}
		invoice.UpdatedAt = invoice.InsertedAt

		key := makeInvoiceKey(invoice.Id)
		if err := tx.Set(key, storage.MarshalInvoice(invoice)); err != nil {
			return err
		}

		if err := tx.Set(hashKey, storage.MarshalID(invoice.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateInvoice updates an existing invoice.
func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, invoice *core.Invoice) (*core.Invoice, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeInvoiceKey(invoice.Id)

		old, err := readInvoice(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		invoice.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalInvoice(invoice)); err != nil {
			return err
		}

		// Move the hash index entry if the file hash changed
		if old.FileHash != invoice.FileHash {
			if err := tx.Delete(makeInvoiceHashKey(old.FileHash)); err != nil {
				return err
			}
			if err := tx.Set(makeInvoiceHashKey(invoice.FileHash), storage.MarshalID(invoice.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice retrieves a single invoice by ID.
func (r *InvoiceRepository) GetInvoice(ctx context.Context, id core.ID) (*core.Invoice, error) {
	var result *core.Invoice
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readInvoice(tx, makeInvoiceKey(id))
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

// GetInvoiceByHash retrieves an invoice by its file content hash.
func (r *InvoiceRepository) GetInvoiceByHash(ctx context.Context, fileHash string) (*core.Invoice, error) {
	var result *core.Invoice
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeInvoiceHashKey(fileHash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = readInvoice(tx, makeInvoiceKey(id))
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

// FindInvoiceIDs returns the IDs of all invoices matching the filter.
func (r *InvoiceRepository) FindInvoiceIDs(ctx context.Context, filter storage.InvoiceFilter) ([]core.ID, error) {
	var ids []core.ID
	err := r.scanInvoices(func(inv *core.Invoice) {
		if filter.Matches(inv) {
			ids = append(ids, inv.Id)
		}
	})
	return ids, err
}

// scanInvoices visits every invoice record in the store.
func (r *InvoiceRepository) scanInvoices(visit func(*core.Invoice)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(invoicePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var invoice *core.Invoice
			err := iter.Item().Value(func(val []byte) error {
				var err error
				invoice, err = storage.UnmarshalInvoice(val)
				return err
			})
			if err != nil {
				return err
			}
			if invoice != nil {
				visit(invoice)
			}
		}
		return nil
	}, false)
}

// readInvoice reads an invoice from the transaction.
func readInvoice(tx *badger.Txn, key []byte) (*core.Invoice, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var invoice *core.Invoice
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		invoice, unmarshalErr = storage.UnmarshalInvoice(val)
		return unmarshalErr
	})
	return invoice, err
}
