package query

import (
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

const (
	// minVectorCandidates is the floor on the vector stage candidate pool.
	minVectorCandidates = 100

	// candidateMultiplier widens the candidate pool relative to the
	// requested limit so post-filter truncation still has enough to rank.
	candidateMultiplier = 10

	// maxInvoiceResults caps invoice registry searches.
	maxInvoiceResults = 50
)

// buildLineItemPlan turns validated line item criteria plus a resolved
// invoice context into a retrieval plan. The vector-first path needs both a
// query text and its embedding; anything less is a structured search.
func buildLineItemPlan(criteria *core.LineItemSearchCriteria, resolved ResolvedContext, vector []float32) storage.RetrievalPlan {
	// An invoice constraint that matched nothing means no item can match
	if resolved.IsEmpty() {
		return storage.RetrievalPlan{
			storage.EmptyStage{},
			storage.ProjectLineItemsStage{SentinelScore: true},
		}
	}

	filter := storage.LineItemFilter{
		InvoiceIDs: resolved.IDs(),
		PageNumber: criteria.PageNumber,
		MinPage:    criteria.MinPage,
		MaxPage:    criteria.MaxPage,
		MinAmount:  criteria.MinAmount,
		MaxAmount:  criteria.MaxAmount,
	}

	if len(vector) > 0 && criteria.QueryText != "" {
		numCandidates := criteria.Limit * candidateMultiplier
		if numCandidates < minVectorCandidates {
			numCandidates = minVectorCandidates
		}
		return storage.RetrievalPlan{
			storage.VectorStage{
				Vector:        vector,
				Filter:        filter,
				NumCandidates: numCandidates,
				Limit:         criteria.Limit,
			},
			storage.JoinInvoiceStage{},
			storage.ProjectLineItemsStage{},
		}
	}

	// Structured-only: deterministic reading order instead of ranking
	plan := storage.RetrievalPlan{}
	if !filter.IsZero() {
		plan = append(plan, storage.MatchLineItemsStage{Filter: filter})
	}
	plan = append(plan,
		storage.SortStage{Order: storage.OrderByInvoiceThenPage},
		storage.LimitStage{N: criteria.Limit},
		storage.JoinInvoiceStage{},
		storage.ProjectLineItemsStage{SentinelScore: true},
	)
	return plan
}

// buildInvoicePlan turns invoice search criteria into a retrieval plan.
// Date filters are validated here; everything else passes through.
func buildInvoicePlan(criteria *core.InvoiceSearchCriteria) (storage.RetrievalPlan, error) {
	dateFrom, err := parseDateFilter(criteria.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	dateTo, err := parseDateFilter(criteria.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	filter := storage.InvoiceFilter{
		InvoiceNumber: criteria.InvoiceNumber,
		SenderName:    criteria.SenderName,
		FilenameQuery: criteria.FilenameQuery,
		Status:        criteria.Status,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
	}

	plan := storage.RetrievalPlan{}
	if !filter.IsZero() {
		plan = append(plan, storage.MatchInvoicesStage{Filter: filter})
	}
	plan = append(plan,
		storage.SortStage{Order: storage.OrderByInvoiceDateDesc},
		storage.LimitStage{N: maxInvoiceResults},
		storage.ProjectInvoicesStage{},
	)
	return plan, nil
}
