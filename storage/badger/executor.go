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
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

// PlanExecutor interprets retrieval plans against the badger-backed
// repositories. Stages are applied in order over an in-memory result set;
// source stages (vector search, structured match) run as full prefix scans
// with the filter applied during the scan.
type PlanExecutor struct {
	invoices  *InvoiceRepository
	lineItems *LineItemRepository
	logger    *slog.Logger
}

var _ storage.PlanExecutor = (*PlanExecutor)(nil)

// NewPlanExecutor creates a plan executor over the given repositories.
//
// Returns storage.PlanExecutor interface to enforce abstraction.
func NewPlanExecutor(invoices *InvoiceRepository, lineItems *LineItemRepository) storage.PlanExecutor {
	return &PlanExecutor{
		invoices:  invoices,
		lineItems: lineItems,
		logger:    slog.Default().With("component", "plan-executor"),
	}
}

// lineItemRow is a line item moving through the pipeline together with its
// ranking state.
type lineItemRow struct {
	item   *core.LineItem
	score  float32
	ranked bool

	// Filled by JoinInvoiceStage.
	invoiceNumber string
	senderName    string
	invoiceDate   time.Time
}

// ExecuteLineItemPlan runs a plan whose terminal projection is line items.
func (e *PlanExecutor) ExecuteLineItemPlan(ctx context.Context, plan storage.RetrievalPlan) ([]*core.LineItemResult, error) {
	var pipeline []*lineItemRow
	seeded := false
	sentinel := false
	projected := false

	for _, stage := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch s := stage.(type) {
		case storage.EmptyStage:
			return []*core.LineItemResult{}, nil

		case storage.VectorStage:
			rows, err := e.vectorSearch(s)
			if err != nil {
				return nil, err
			}
			pipeline = rows
			seeded = true

		case storage.MatchLineItemsStage:
			rows, err := e.matchLineItems(s.Filter)
			if err != nil {
				return nil, err
			}
			pipeline = rows
			seeded = true

		case storage.SortStage:
			if !seeded {
				var err error
				if pipeline, err = e.matchLineItems(storage.LineItemFilter{}); err != nil {
					return nil, err
				}
				seeded = true
			}
			if s.Order != storage.OrderByInvoiceThenPage {
				return nil, fmt.Errorf("%w: sort order %d not valid for line items", storage.ErrInvalidPlan, s.Order)
			}
			slices.SortStableFunc(pipeline, func(a, b *lineItemRow) int {
				if a.item.InvoiceId != b.item.InvoiceId {
					if a.item.InvoiceId < b.item.InvoiceId {
						return -1
					}
					return 1
				}
				return a.item.PageNumber - b.item.PageNumber
			})

		case storage.LimitStage:
			if len(pipeline) > s.N {
				pipeline = pipeline[:s.N]
			}

		case storage.JoinInvoiceStage:
			if err := e.joinInvoices(pipeline); err != nil {
				return nil, err
			}

		case storage.ProjectLineItemsStage:
			sentinel = s.SentinelScore
			projected = true

		default:
			return nil, fmt.Errorf("%w: stage %T not valid in a line item plan", storage.ErrInvalidPlan, stage)
		}
	}

	if !projected {
		return nil, fmt.Errorf("%w: missing line item projection", storage.ErrInvalidPlan)
	}

	results := make([]*core.LineItemResult, 0, len(pipeline))
	for _, row := range pipeline {
		score := row.score
		if !row.ranked && sentinel {
			score = core.SentinelScore
		}
		results = append(results, &core.LineItemResult{
			Score:         score,
			InvoiceId:     row.item.InvoiceId,
			PageNumber:    row.item.PageNumber,
			Description:   row.item.Description,
			Section:       row.item.Section,
			ItemCode:      row.item.ItemCode,
			DeliveryDate:  row.item.DeliveryDate,
			Quantity:      row.item.Quantity,
			QuantityUnit:  row.item.QuantityUnit,
			UnitPrice:     row.item.UnitPrice,
			TotalAmount:   row.item.TotalAmount,
			InvoiceNumber: row.invoiceNumber,
			SenderName:    row.senderName,
			InvoiceDate:   row.invoiceDate,
		})
	}
	return results, nil
}

// ExecuteInvoicePlan runs a plan whose terminal projection is invoices.
func (e *PlanExecutor) ExecuteInvoicePlan(ctx context.Context, plan storage.RetrievalPlan) ([]*core.InvoiceResult, error) {
	var pipeline []*core.Invoice
	seeded := false
	projected := false

	for _, stage := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch s := stage.(type) {
		case storage.EmptyStage:
			return []*core.InvoiceResult{}, nil

		case storage.MatchInvoicesStage:
			var err error
			if pipeline, err = e.matchInvoices(s.Filter); err != nil {
				return nil, err
			}
			seeded = true

		case storage.SortStage:
			if !seeded {
				var err error
				if pipeline, err = e.matchInvoices(storage.InvoiceFilter{}); err != nil {
					return nil, err
				}
				seeded = true
			}
			if s.Order != storage.OrderByInvoiceDateDesc {
				return nil, fmt.Errorf("%w: sort order %d not valid for invoices", storage.ErrInvalidPlan, s.Order)
			}
			// Newest first; invoices with an unknown date sort last
			slices.SortStableFunc(pipeline, func(a, b *core.Invoice) int {
				switch {
				case a.InvoiceDate.IsZero() && b.InvoiceDate.IsZero():
					return 0
				case a.InvoiceDate.IsZero():
					return 1
				case b.InvoiceDate.IsZero():
					return -1
				case a.InvoiceDate.After(b.InvoiceDate):
					return -1
				case a.InvoiceDate.Before(b.InvoiceDate):
					return 1
				default:
					return 0
				}
			})

		case storage.LimitStage:
			if !seeded {
				var err error
				if pipeline, err = e.matchInvoices(storage.InvoiceFilter{}); err != nil {
					return nil, err
				}
				seeded = true
			}
			if len(pipeline) > s.N {
				pipeline = pipeline[:s.N]
			}

		case storage.ProjectInvoicesStage:
			if !seeded {
				var err error
				if pipeline, err = e.matchInvoices(storage.InvoiceFilter{}); err != nil {
					return nil, err
				}
				seeded = true
			}
			projected = true

		default:
			return nil, fmt.Errorf("%w: stage %T not valid in an invoice plan", storage.ErrInvalidPlan, stage)
		}
	}

	if !projected {
		return nil, fmt.Errorf("%w: missing invoice projection", storage.ErrInvalidPlan)
	}

	results := make([]*core.InvoiceResult, 0, len(pipeline))
	for _, inv := range pipeline {
		results = append(results, &core.InvoiceResult{
			InvoiceNumber: inv.InvoiceNumber,
			SenderName:    inv.SenderName,
			InvoiceDate:   inv.InvoiceDate,
			TotalAmount:   inv.TotalAmount,
			Currency:      inv.Currency,
			Status:        inv.Status,
			Filename:      inv.Filename,
			ErrorMessage:  inv.ErrorMessage,
		})
	}
	return results, nil
}

// vectorSearch scans line items, ranks filter matches by dot product against
// the query vector, keeps the NumCandidates best, and truncates to Limit.
// Vectors are unit-normalized at embed time, so the dot product is the cosine
// similarity.
func (e *PlanExecutor) vectorSearch(s storage.VectorStage) ([]*lineItemRow, error) {
	var rows []*lineItemRow
	err := e.lineItems.scanLineItems(func(item *core.LineItem) {
		if len(item.Vector) == 0 {
			return
		}
		if !s.Filter.Matches(item) {
			return
		}
		rows = append(rows, &lineItemRow{
			item:   item,
			score:  dotProduct(s.Vector, item.Vector),
			ranked: true,
		})
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(rows, func(a, b *lineItemRow) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	if s.NumCandidates > 0 && len(rows) > s.NumCandidates {
		rows = rows[:s.NumCandidates]
	}
	if s.Limit > 0 && len(rows) > s.Limit {
		rows = rows[:s.Limit]
	}
	return rows, nil
}

// matchLineItems scans line items and keeps filter matches, unranked.
func (e *PlanExecutor) matchLineItems(filter storage.LineItemFilter) ([]*lineItemRow, error) {
	var rows []*lineItemRow
	err := e.lineItems.scanLineItems(func(item *core.LineItem) {
		if filter.Matches(item) {
			rows = append(rows, &lineItemRow{item: item})
		}
	})
	return rows, err
}

// matchInvoices scans invoices and keeps filter matches.
func (e *PlanExecutor) matchInvoices(filter storage.InvoiceFilter) ([]*core.Invoice, error) {
	var invoices []*core.Invoice
	err := e.invoices.scanInvoices(func(inv *core.Invoice) {
		if filter.Matches(inv) {
			invoices = append(invoices, inv)
		}
	})
	return invoices, err
}

// joinInvoices attaches parent invoice fields to each row. Rows whose invoice
// is missing keep empty invoice fields.
func (e *PlanExecutor) joinInvoices(rows []*lineItemRow) error {
	cache := make(map[core.ID]*core.Invoice)
	return e.invoices.backend.WithTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			inv, ok := cache[row.item.InvoiceId]
			if !ok {
				var err error
				inv, err = readInvoice(tx, makeInvoiceKey(row.item.InvoiceId))
				if err != nil {
					return err
				}
				cache[row.item.InvoiceId] = inv
			}
			if inv == nil {
				continue
			}
			row.invoiceNumber = inv.InvoiceNumber
			row.senderName = inv.SenderName
			row.invoiceDate = inv.InvoiceDate
		}
		return nil
	}, false)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
