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


package storage

import (
	"strings"
	"time"

	"github.com/poiesic/invoicit/core"
)

// RetrievalPlan is an ordered sequence of stages describing what to retrieve.
// Plans are built by the query layer and interpreted by a PlanExecutor. A plan
// says nothing about how the backend runs it; the executor is free to fuse,
// reorder, or push down stages as long as the observable result is the same.
type RetrievalPlan []Stage

// Stage is one step of a retrieval plan. It is a closed set: the concrete
// types in this file are the only implementations.
type Stage interface {
	stage()
}

// EmptyStage yields no results regardless of anything else in the plan.
// Planners emit it when a filter is known to be unsatisfiable up front, such
// as an invoice constraint that matched no invoices.
type EmptyStage struct{}

// VectorStage performs approximate nearest neighbor search over line item
// vectors. The filter, if non-zero, constrains which items are candidates
// before ranking. NumCandidates is the breadth of the candidate pool; Limit
// truncates the ranked output.
type VectorStage struct {
	Vector        []float32
	Filter        LineItemFilter
	NumCandidates int
	Limit         int
}

// MatchLineItemsStage selects line items by structured filter only, with no
// ranking. Results carry no meaningful score.
type MatchLineItemsStage struct {
	Filter LineItemFilter
}

// MatchInvoicesStage selects invoice registry records by structured filter.
type MatchInvoicesStage struct {
	Filter InvoiceFilter
}

// SortOrder enumerates the orderings a SortStage can request.
type SortOrder int

const (
	// OrderByInvoiceThenPage sorts line items by invoice ID ascending, then
	// page number ascending. Used for structured (unranked) item results.
	OrderByInvoiceThenPage SortOrder = iota + 1

	// OrderByInvoiceDateDesc sorts invoices by invoice date, newest first.
	OrderByInvoiceDateDesc
)

// SortStage orders the current result set.
type SortStage struct {
	Order SortOrder
}

// LimitStage truncates the current result set to at most N entries.
type LimitStage struct {
	N int
}

// JoinInvoiceStage attaches parent invoice fields (number, sender, date) to
// each line item in the result set. Items whose invoice is missing are kept
// with empty invoice fields rather than dropped.
type JoinInvoiceStage struct{}

// ProjectLineItemsStage shapes the final line item output. When SentinelScore
// is set, unranked results are given the fixed score core.SentinelScore so
// that ranked and unranked result sets share one shape.
type ProjectLineItemsStage struct {
	SentinelScore bool
}

// ProjectInvoicesStage shapes the final invoice output.
type ProjectInvoicesStage struct{}

func (EmptyStage) stage()            {}
func (VectorStage) stage()           {}
func (MatchLineItemsStage) stage()   {}
func (MatchInvoicesStage) stage()    {}
func (SortStage) stage()             {}
func (LimitStage) stage()            {}
func (JoinInvoiceStage) stage()      {}
func (ProjectLineItemsStage) stage() {}
func (ProjectInvoicesStage) stage()  {}

// LineItemFilter is the structured predicate applied to line items. Zero
// fields are unconstrained. Page and amount bounds are inclusive.
type LineItemFilter struct {
	// InvoiceIDs restricts items to these parent invoices. Nil means no
	// invoice constraint; an empty non-nil slice matches nothing.
	InvoiceIDs []core.ID

	PageNumber *int
	MinPage    *int
	MaxPage    *int

	MinAmount *float64
	MaxAmount *float64
}

// IsZero reports whether the filter constrains nothing.
func (f LineItemFilter) IsZero() bool {
	return f.InvoiceIDs == nil &&
		f.PageNumber == nil && f.MinPage == nil && f.MaxPage == nil &&
		f.MinAmount == nil && f.MaxAmount == nil
}

// Matches reports whether a line item satisfies the filter. An exact page
// match takes precedence over the page range bounds.
func (f LineItemFilter) Matches(item *core.LineItem) bool {
	if f.InvoiceIDs != nil {
		found := false
		for _, id := range f.InvoiceIDs {
			if item.InvoiceId == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.PageNumber != nil {
		if item.PageNumber != *f.PageNumber {
			return false
		}
	} else {
		if f.MinPage != nil && item.PageNumber < *f.MinPage {
			return false
		}
		if f.MaxPage != nil && item.PageNumber > *f.MaxPage {
			return false
		}
	}

	if f.MinAmount != nil && (item.TotalAmount == nil || *item.TotalAmount < *f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && (item.TotalAmount == nil || *item.TotalAmount > *f.MaxAmount) {
		return false
	}

	return true
}

// InvoiceFilter is the structured predicate applied to invoice registry
// records. Zero fields are unconstrained. Name and filename matches are
// case-insensitive substring matches; date bounds are inclusive and apply to
// the invoice date.
type InvoiceFilter struct {
	InvoiceNumber string
	SenderName    string
	FilenameQuery string
	Status        *core.ProcessingStatus
	DateFrom      time.Time
	DateTo        time.Time
}

// IsZero reports whether the filter constrains nothing.
func (f InvoiceFilter) IsZero() bool {
	return f.InvoiceNumber == "" && f.SenderName == "" && f.FilenameQuery == "" &&
		f.Status == nil && f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// Matches reports whether an invoice satisfies the filter. Invoices with an
// unknown invoice date never match a date bound.
func (f InvoiceFilter) Matches(inv *core.Invoice) bool {
	if f.InvoiceNumber != "" && inv.InvoiceNumber != f.InvoiceNumber {
		return false
	}
	if f.SenderName != "" && !containsFold(inv.SenderName, f.SenderName) {
		return false
	}
	if f.FilenameQuery != "" && !containsFold(inv.Filename, f.FilenameQuery) {
		return false
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if !f.DateFrom.IsZero() {
		if inv.InvoiceDate.IsZero() || inv.InvoiceDate.Before(f.DateFrom) {
			return false
		}
	}
	if !f.DateTo.IsZero() {
		if inv.InvoiceDate.IsZero() || inv.InvoiceDate.After(f.DateTo) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
