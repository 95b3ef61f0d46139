package query

import (
	"testing"

	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalized(c *core.LineItemSearchCriteria) *core.LineItemSearchCriteria {
	c.Normalize()
	return c
}

func TestBuildLineItemPlanEmptyIDSet(t *testing.T) {
	criteria := normalized(&core.LineItemSearchCriteria{SenderName: "nobody"})

	plan := buildLineItemPlan(criteria, IDSet(nil), nil)

	require.Len(t, plan, 2)
	assert.IsType(t, storage.EmptyStage{}, plan[0])
	assert.IsType(t, storage.ProjectLineItemsStage{}, plan[1])
}

func TestBuildLineItemPlanVectorFirst(t *testing.T) {
	criteria := normalized(&core.LineItemSearchCriteria{QueryText: "labor"})
	vector := []float32{0.1, 0.2}

	plan := buildLineItemPlan(criteria, Unconstrained(), vector)

	require.Len(t, plan, 3)
	vs, ok := plan[0].(storage.VectorStage)
	require.True(t, ok)
	assert.Equal(t, vector, vs.Vector)
	assert.Equal(t, core.DefaultLineItemLimit, vs.Limit)
	// Candidate pool floor
	assert.Equal(t, 100, vs.NumCandidates)
	assert.True(t, vs.Filter.IsZero())

	assert.IsType(t, storage.JoinInvoiceStage{}, plan[1])
	proj, ok := plan[2].(storage.ProjectLineItemsStage)
	require.True(t, ok)
	assert.False(t, proj.SentinelScore)
}

func TestBuildLineItemPlanCandidatePoolScalesWithLimit(t *testing.T) {
	criteria := normalized(&core.LineItemSearchCriteria{QueryText: "labor", Limit: 40})

	plan := buildLineItemPlan(criteria, Unconstrained(), []float32{1})

	vs := plan[0].(storage.VectorStage)
	assert.Equal(t, 400, vs.NumCandidates)
	assert.Equal(t, 40, vs.Limit)
}

func TestBuildLineItemPlanVectorCarriesIDFilter(t *testing.T) {
	criteria := normalized(&core.LineItemSearchCriteria{
		QueryText:  "labor",
		SenderName: "Dell",
	})

	plan := buildLineItemPlan(criteria, IDSet([]core.ID{4, 9}), []float32{1})

	vs := plan[0].(storage.VectorStage)
	assert.Equal(t, []core.ID{4, 9}, vs.Filter.InvoiceIDs)
}

func TestBuildLineItemPlanStructured(t *testing.T) {
	page := 3
	criteria := normalized(&core.LineItemSearchCriteria{PageNumber: &page})

	plan := buildLineItemPlan(criteria, Unconstrained(), nil)

	require.Len(t, plan, 5)
	match, ok := plan[0].(storage.MatchLineItemsStage)
	require.True(t, ok)
	assert.Equal(t, &page, match.Filter.PageNumber)

	sort, ok := plan[1].(storage.SortStage)
	require.True(t, ok)
	assert.Equal(t, storage.OrderByInvoiceThenPage, sort.Order)

	limit, ok := plan[2].(storage.LimitStage)
	require.True(t, ok)
	assert.Equal(t, core.DefaultLineItemLimit, limit.N)

	assert.IsType(t, storage.JoinInvoiceStage{}, plan[3])
	proj := plan[4].(storage.ProjectLineItemsStage)
	assert.True(t, proj.SentinelScore)
}

func TestBuildLineItemPlanVectorWithoutQueryText(t *testing.T) {
	page := 3
	criteria := normalized(&core.LineItemSearchCriteria{PageNumber: &page})

	// An embedding alone does not make a semantic search
	plan := buildLineItemPlan(criteria, Unconstrained(), []float32{0.1, 0.2})

	require.Len(t, plan, 5)
	match, ok := plan[0].(storage.MatchLineItemsStage)
	require.True(t, ok)
	assert.Equal(t, &page, match.Filter.PageNumber)
	assert.IsType(t, storage.SortStage{}, plan[1])
	assert.IsType(t, storage.LimitStage{}, plan[2])
	proj := plan[4].(storage.ProjectLineItemsStage)
	assert.True(t, proj.SentinelScore)
}

func TestBuildLineItemPlanStructuredNoFilter(t *testing.T) {
	criteria := normalized(&core.LineItemSearchCriteria{})

	plan := buildLineItemPlan(criteria, Unconstrained(), nil)

	// No match stage when there is nothing to match on
	require.Len(t, plan, 4)
	assert.IsType(t, storage.SortStage{}, plan[0])
}

func TestBuildInvoicePlan(t *testing.T) {
	t.Run("with filter", func(t *testing.T) {
		plan, err := buildInvoicePlan(&core.InvoiceSearchCriteria{SenderName: "Dell"})
		require.NoError(t, err)

		require.Len(t, plan, 4)
		match := plan[0].(storage.MatchInvoicesStage)
		assert.Equal(t, "Dell", match.Filter.SenderName)
		assert.Equal(t, storage.OrderByInvoiceDateDesc, plan[1].(storage.SortStage).Order)
		assert.Equal(t, maxInvoiceResults, plan[2].(storage.LimitStage).N)
		assert.IsType(t, storage.ProjectInvoicesStage{}, plan[3])
	})

	t.Run("empty criteria lists recent", func(t *testing.T) {
		plan, err := buildInvoicePlan(&core.InvoiceSearchCriteria{})
		require.NoError(t, err)

		require.Len(t, plan, 3)
		assert.IsType(t, storage.SortStage{}, plan[0])
	})

	t.Run("bad date rejected upfront", func(t *testing.T) {
		_, err := buildInvoicePlan(&core.InvoiceSearchCriteria{StartDate: "March 2024"})
		require.Error(t, err)

		var dateErr *InvalidDateFormatError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "start_date", dateErr.Field)
		assert.Equal(t, "March 2024", dateErr.Value)
	})
}

func TestResolvedContext(t *testing.T) {
	t.Run("unconstrained", func(t *testing.T) {
		rc := Unconstrained()
		assert.False(t, rc.IsConstrained())
		assert.False(t, rc.IsEmpty())
		assert.Nil(t, rc.IDs())
	})

	t.Run("empty set", func(t *testing.T) {
		rc := IDSet([]core.ID{})
		assert.True(t, rc.IsConstrained())
		assert.True(t, rc.IsEmpty())
		assert.NotNil(t, rc.IDs())
	})

	t.Run("populated set", func(t *testing.T) {
		rc := IDSet([]core.ID{1, 2})
		assert.True(t, rc.IsConstrained())
		assert.False(t, rc.IsEmpty())
		assert.Equal(t, []core.ID{1, 2}, rc.IDs())
	})
}
