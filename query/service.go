package query

import (
	"context"
	"log/slog"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
)

// Service executes line item and invoice searches.
type Service struct {
	executor storage.PlanExecutor
	invoices storage.InvoiceRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new query service.
func NewService(
	executor storage.PlanExecutor,
	invoices storage.InvoiceRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Service, error) {
	if executor == nil {
		return nil, ErrExecutorRequired
	}
	if invoices == nil {
		return nil, ErrInvoiceRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Service{
		executor: executor,
		invoices: invoices,
		embedder: embedder,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SearchLineItems runs a hybrid line item search. Criteria with query text
// are ranked by vector similarity; purely structured criteria return items
// in reading order with the sentinel score.
func (s *Service) SearchLineItems(ctx context.Context, criteria *core.LineItemSearchCriteria) ([]*core.LineItemResult, error) {
	if criteria == nil {
		return nil, ErrCriteriaRequired
	}
	criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	var vector []float32
	if criteria.QueryText != "" {
		var err error
		vector, err = s.embedder.EmbedText(ctx, criteria.QueryText, ai.EmbedQuery)
		if err != nil {
			s.logger.Error("error generating embedding for query", "query", criteria.QueryText, "err", err)
			return nil, err
		}
	}

	return s.SearchLineItemsWithEmbedding(ctx, criteria, vector)
}

// SearchLineItemsWithEmbedding runs a line item search with a pre-computed
// query embedding. Ranking by similarity needs both the embedding and the
// criteria's query text; a vector without query text (or the reverse) takes
// the structured path.
func (s *Service) SearchLineItemsWithEmbedding(ctx context.Context, criteria *core.LineItemSearchCriteria, vector []float32) ([]*core.LineItemResult, error) {
	if criteria == nil {
		return nil, ErrCriteriaRequired
	}
	criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	resolved, err := resolveInvoiceContext(ctx, s.invoices, criteria)
	if err != nil {
		return nil, err
	}

	if resolved.IsEmpty() {
		s.logger.Debug("invoice filter matched no invoices, short-circuiting",
			"invoice_number", criteria.InvoiceNumber,
			"sender_name", criteria.SenderName)
	}

	plan := buildLineItemPlan(criteria, resolved, vector)

	results, err := s.executor.ExecuteLineItemPlan(ctx, plan)
	if err != nil {
		s.logger.Error("error executing line item plan", "stages", len(plan), "err", err)
		return nil, &DatabaseQueryError{Op: "line item search", Err: err}
	}

	s.logger.Debug("line item search finished",
		"semantic", len(vector) > 0,
		"constrained", resolved.IsConstrained(),
		"results", len(results))
	return results, nil
}

// SearchInvoices searches the invoice registry. Results are ordered by
// invoice date, newest first, capped at the registry search limit.
func (s *Service) SearchInvoices(ctx context.Context, criteria *core.InvoiceSearchCriteria) ([]*core.InvoiceResult, error) {
	if criteria == nil {
		return nil, ErrCriteriaRequired
	}
	plan, err := buildInvoicePlan(criteria)
	if err != nil {
		return nil, err
	}

	results, err := s.executor.ExecuteInvoicePlan(ctx, plan)
	if err != nil {
		s.logger.Error("error executing invoice plan", "err", err)
		return nil, &DatabaseQueryError{Op: "invoice search", Err: err}
	}

	s.logger.Debug("invoice search finished", "results", len(results))
	return results, nil
}
