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

package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/invoicit/ai"
)

// ProcessingType names the extraction strategy used for a document.
type ProcessingType string

const (
	// ProcessingSingleShot extracts a one-page document in a single call.
	ProcessingSingleShot ProcessingType = "single_shot"
	// ProcessingSequentialChain extracts pages in order, carrying table
	// state across page boundaries.
	ProcessingSequentialChain ProcessingType = "sequential_chain"
)

// ExtractedPage holds the line items extracted from one page.
type ExtractedPage struct {
	PageNumber int
	LineItems  []ai.ExtractedLineItem
}

// FinalInvoice is the aggregate extraction result for a whole document.
type FinalInvoice struct {
	Metadata ai.InvoiceContext
	Pages    []ExtractedPage

	// PagesProcessed counts the pages of the source document, including
	// pages that failed and were bridged over. len(Pages) may be smaller.
	PagesProcessed int

	ProcessingType ProcessingType
}

// multipleBlankLines matches runs of three or more newlines, which PDF text
// extraction tends to produce around page furniture.
var multipleBlankLines = regexp.MustCompile(`\n{3,}`)

// Chainer drives page extraction over a whole document.
type Chainer struct {
	extractor ai.PageExtractor
	logger    *slog.Logger
}

// Option is a functional option for configuring a Chainer.
type Option func(*Chainer) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chainer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChainer creates a new extraction chainer.
func NewChainer(extractor ai.PageExtractor, opts ...Option) (*Chainer, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	c := &Chainer{
		extractor: extractor,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Extract routes a document to the strategy suited to its page count.
func (c *Chainer) Extract(ctx context.Context, pages []string) (*FinalInvoice, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	if len(pages) == 1 {
		return c.extractSingle(ctx, pages[0])
	}
	return c.extractChain(ctx, pages)
}

func (c *Chainer) extractSingle(ctx context.Context, page string) (*FinalInvoice, error) {
	c.logger.Debug("single page invoice, using one-shot extraction")

	result, err := c.extractor.ExtractSingle(ctx, cleanText(page))
	if err != nil {
		return nil, fmt.Errorf("single page extraction failed: %w", err)
	}

	return &FinalInvoice{
		Metadata: result.InvoiceContext,
		Pages: []ExtractedPage{
			{PageNumber: 1, LineItems: normalizeItems(result.LineItems)},
		},
		PagesProcessed: 1,
		ProcessingType: ProcessingSingleShot,
	}, nil
}

func (c *Chainer) extractChain(ctx context.Context, pages []string) (*FinalInvoice, error) {
	c.logger.Debug("multi page invoice, using sequential chain extraction",
		"pages", len(pages))

	var (
		extracted  []ExtractedPage
		aggregated ai.InvoiceContext
	)
	state := ai.InitialPageState()

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageNum := i + 1

		result, err := c.extractor.ExtractPage(ctx, cleanText(page), state)
		if err != nil {
			// Bridge: keep the current state so the next page can still
			// continue an open table.
			c.logger.Error("extraction chain broke, bridging to next page",
				"page", pageNum, "error", err)
			continue
		}

		extracted = append(extracted, ExtractedPage{
			PageNumber: pageNum,
			LineItems:  normalizeItems(result.LineItems),
		})

		if result.InvoiceContext != nil {
			MergeContext(&aggregated, result.InvoiceContext)
		}

		state = result.NextPageState
	}

	return &FinalInvoice{
		Metadata:       aggregated,
		Pages:          extracted,
		PagesProcessed: len(pages),
		ProcessingType: ProcessingSequentialChain,
	}, nil
}

// normalizeItems drops items without a description and fills in the default
// section label. The input slice is left untouched.
func normalizeItems(items []ai.ExtractedLineItem) []ai.ExtractedLineItem {
	kept := make([]ai.ExtractedLineItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		if item.Section == "" {
			item.Section = "General"
		}
		kept = append(kept, item)
	}
	return kept
}

// cleanText collapses runs of blank lines and trims surrounding whitespace.
func cleanText(text string) string {
	return strings.TrimSpace(multipleBlankLines.ReplaceAllString(text, "\n\n"))
}
