package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChainer(t *testing.T) {
	t.Run("requires extractor", func(t *testing.T) {
		_, err := NewChainer(nil)
		assert.ErrorIs(t, err, ErrExtractorRequired)
	})

	t.Run("with options", func(t *testing.T) {
		c, err := NewChainer(mock.NewMockPageExtractor(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestExtractNoPages(t *testing.T) {
	c, err := NewChainer(mock.NewMockPageExtractor())
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExtractSinglePage(t *testing.T) {
	extractor := mock.NewMockPageExtractor()
	extractor.ExtractSingleFunc = func(ctx context.Context, pageText string) (*ai.SinglePageExtraction, error) {
		return &ai.SinglePageExtraction{
			InvoiceContext: ai.InvoiceContext{
				InvoiceNumber: "INV-100",
				SenderName:    "Dell Technologies",
			},
			LineItems: []ai.ExtractedLineItem{
				{Description: "docking station"},
			},
		}, nil
	}

	c, err := NewChainer(extractor)
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), []string{"Invoice INV-100\ndocking station"})
	require.NoError(t, err)

	assert.Equal(t, ProcessingSingleShot, result.ProcessingType)
	assert.Equal(t, 1, result.PagesProcessed)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, 1, result.Pages[0].PageNumber)
	assert.Equal(t, "INV-100", result.Metadata.InvoiceNumber)
	assert.Equal(t, 1, extractor.CallCount())
}

func TestExtractSinglePageFailure(t *testing.T) {
	extractor := mock.NewMockPageExtractor()
	extractor.ExtractSingleFunc = func(ctx context.Context, pageText string) (*ai.SinglePageExtraction, error) {
		return nil, errors.New("model unavailable")
	}

	c, err := NewChainer(extractor)
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), []string{"page text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single page extraction failed")
}

func TestExtractSequentialChain(t *testing.T) {
	extractor := mock.NewMockPageExtractor()

	var seenStates []ai.PageState
	extractor.ExtractPageFunc = func(ctx context.Context, pageText string, previous ai.PageState) (*ai.PageExtraction, error) {
		seenStates = append(seenStates, previous)

		switch pageText {
		case "page one":
			return &ai.PageExtraction{
				NextPageState: ai.PageState{
					TableStatus:        ai.TableOpenHeadless,
					ActiveColumns:      []string{"Description", "Amount"},
					ActiveSectionTitle: "Labor",
				},
				InvoiceContext: &ai.InvoiceContext{InvoiceNumber: "INV-7"},
				LineItems:      []ai.ExtractedLineItem{{Description: "consulting"}},
			}, nil
		default:
			return &ai.PageExtraction{
				NextPageState:  ai.InitialPageState(),
				InvoiceContext: &ai.InvoiceContext{InvoiceNumber: "WRONG", SenderName: "Acme"},
				LineItems:      []ai.ExtractedLineItem{{Description: "travel"}},
			}, nil
		}
	}

	c, err := NewChainer(extractor)
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), []string{"page one", "page two"})
	require.NoError(t, err)

	assert.Equal(t, ProcessingSequentialChain, result.ProcessingType)
	assert.Equal(t, 2, result.PagesProcessed)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Pages[0].PageNumber)
	assert.Equal(t, 2, result.Pages[1].PageNumber)

	// State threading: page two sees the table state page one reported.
	require.Len(t, seenStates, 2)
	assert.Equal(t, ai.InitialPageState(), seenStates[0])
	assert.Equal(t, ai.TableOpenHeadless, seenStates[1].TableStatus)
	assert.Equal(t, "Labor", seenStates[1].ActiveSectionTitle)

	// First page's invoice number wins over the second page's.
	assert.Equal(t, "INV-7", result.Metadata.InvoiceNumber)
	assert.Equal(t, "Acme", result.Metadata.SenderName)
}

func TestExtractChainBridgesFailedPage(t *testing.T) {
	extractor := mock.NewMockPageExtractor()

	openState := ai.PageState{
		TableStatus:        ai.TableOpenHeadless,
		ActiveColumns:      []string{"Item", "Price"},
		ActiveSectionTitle: "Materials",
	}

	var thirdPageState ai.PageState
	extractor.ExtractPageFunc = func(ctx context.Context, pageText string, previous ai.PageState) (*ai.PageExtraction, error) {
		switch pageText {
		case "page one":
			return &ai.PageExtraction{
				NextPageState: openState,
				LineItems:     []ai.ExtractedLineItem{{Description: "lumber"}},
			}, nil
		case "page two":
			return nil, errors.New("model timeout")
		default:
			thirdPageState = previous
			return &ai.PageExtraction{
				NextPageState: ai.InitialPageState(),
				LineItems:     []ai.ExtractedLineItem{{Description: "nails"}},
			}, nil
		}
	}

	c, err := NewChainer(extractor)
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), []string{"page one", "page two", "page three"})
	require.NoError(t, err)

	// The failed page is skipped but still counted.
	assert.Equal(t, 3, result.PagesProcessed)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Pages[0].PageNumber)
	assert.Equal(t, 3, result.Pages[1].PageNumber)

	// Page three resumes with page one's open-table state.
	assert.Equal(t, openState, thirdPageState)
}

func TestExtractChainCancellation(t *testing.T) {
	c, err := NewChainer(mock.NewMockPageExtractor())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Extract(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractNormalizesLineItems(t *testing.T) {
	raw := []ai.ExtractedLineItem{
		{Description: "docking station"},
		{Description: "   "},
		{Description: "warranty", Section: "Services"},
	}
	extractor := mock.NewMockPageExtractor()
	extractor.ExtractSingleFunc = func(ctx context.Context, pageText string) (*ai.SinglePageExtraction, error) {
		return &ai.SinglePageExtraction{LineItems: raw}, nil
	}

	c, err := NewChainer(extractor)
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), []string{"one page"})
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	items := result.Pages[0].LineItems
	require.Len(t, items, 2)
	assert.Equal(t, "General", items[0].Section)
	assert.Equal(t, "Services", items[1].Section)

	// The extractor's slice is not rewritten in place
	assert.Equal(t, "   ", raw[1].Description)
	assert.Equal(t, "", raw[0].Section)
}

func TestCleanText(t *testing.T) {
	input := "  header\n\n\n\n\nbody line\n\ntrailer  \n"
	assert.Equal(t, "header\n\nbody line\n\ntrailer", cleanText(input))
}
