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


package badger

import (
	"errors"

	"github.com/poiesic/invoicit/storage"
)

// Repositories bundles the badger-backed repositories and plan executor that
// share one database handle.
type Repositories struct {
	Invoices  storage.InvoiceRepository
	LineItems storage.LineItemRepository
	Executor  storage.PlanExecutor

	backend *Backend
}

// NewRepositories opens a BadgerDB database at the given path and creates the
// repositories and executor over it. Caller must Close when done.
func NewRepositories(path string) (*Repositories, error) {
	return newRepositories(path, false)
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must Close when done.
func NewMemoryRepositories() (*Repositories, error) {
	return newRepositories("", true)
}

func newRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	invoices, err := NewInvoiceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	lineItems, err := NewLineItemRepository(backend)
	if err != nil {
		invoices.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Invoices:  invoices,
		LineItems: lineItems,
		Executor:  NewPlanExecutor(invoices, lineItems),
		backend:   backend,
	}, nil
}

// Close releases the repositories' sequences and closes the database.
// Sequences must be released before the backend shuts down.
func (r *Repositories) Close() error {
	var errs []error
	if err := r.Invoices.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.LineItems.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.backend.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
