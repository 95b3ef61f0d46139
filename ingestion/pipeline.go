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

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/extraction"
	"github.com/poiesic/invoicit/storage"
)

// defaultPoolSize bounds how many documents a batch processes concurrently.
const defaultPoolSize = 5

// Pipeline orchestrates the ingestion of invoice documents: parsing,
// extraction, embedding, and storage.
type Pipeline struct {
	invoices  storage.InvoiceRepository
	lineItems storage.LineItemRepository
	parser    DocumentParser
	embedder  ai.Embedder
	chainer   *extraction.Chainer
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is 5.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	invoices storage.InvoiceRepository,
	lineItems storage.LineItemRepository,
	parser DocumentParser,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if invoices == nil {
		return nil, ErrInvoiceRepositoryRequired
	}
	if lineItems == nil {
		return nil, ErrLineItemRepositoryRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		invoices:  invoices,
		lineItems: lineItems,
		parser:    parser,
		embedder:  provider.Embedder(),
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	chainer, err := extraction.NewChainer(provider.PageExtractor(),
		extraction.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}
	p.chainer = chainer

	return p, nil
}

// IngestReport summarizes what happened to one document.
type IngestReport struct {
	Path      string
	InvoiceId core.ID
	// LineItems counts the stored line items.
	LineItems int
	// Skipped is true when the document was already ingested.
	Skipped bool
	Err     error
}

// IngestInvoice processes one document end to end. A document whose content
// hash is already stored is skipped. Extraction failures leave a failed
// invoice record behind so the attempt is visible.
func (p *Pipeline) IngestInvoice(ctx context.Context, path string) (*IngestReport, error) {
	start := time.Now()

	hash, err := core.HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}

	existing, err := p.invoices.GetInvoiceByHash(ctx, hash)
	switch {
	case err == nil:
		p.logger.Info("document already ingested, skipping",
			"path", path, "invoice_id", existing.Id)
		return &IngestReport{Path: path, InvoiceId: existing.Id, Skipped: true}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	parsed, err := p.parser.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(parsed.Pages) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	invoice, err := p.invoices.AddInvoice(ctx, &core.Invoice{
		Filename:   parsed.Filename,
		FileHash:   hash,
		UploadDate: time.Now().UTC(),
		Status:     core.StatusProcessing,
		TotalPages: len(parsed.Pages),
	})
	if err != nil {
		return nil, err
	}

	result, err := p.chainer.Extract(ctx, parsed.Pages)
	if err != nil {
		p.markFailed(ctx, invoice, start, err)
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	items, err := p.buildLineItems(ctx, invoice.Id, result)
	if err != nil {
		p.markFailed(ctx, invoice, start, err)
		return nil, fmt.Errorf("embedding %s: %w", path, err)
	}

	if len(items) > 0 {
		if _, err := p.lineItems.AddLineItems(ctx, items...); err != nil {
			p.markFailed(ctx, invoice, start, err)
			return nil, err
		}
	}

	applyMetadata(invoice, result)
	invoice.Status = core.StatusCompleted
	invoice.ProcessingTime = time.Since(start)
	if _, err := p.invoices.UpdateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	p.logger.Info("invoice ingested",
		"path", path,
		"invoice_id", invoice.Id,
		"pages", result.PagesProcessed,
		"line_items", len(items),
		"strategy", result.ProcessingType,
		"duration", invoice.ProcessingTime)

	return &IngestReport{
		Path:      path,
		InvoiceId: invoice.Id,
		LineItems: len(items),
	}, nil
}

// IngestBatch processes documents concurrently over the worker pool.
// The returned reports are in input order; per-document failures are
// recorded in the report rather than aborting the batch.
func (p *Pipeline) IngestBatch(ctx context.Context, paths []string) []*IngestReport {
	reports := make([]*IngestReport, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			report, err := p.IngestInvoice(ctx, path)
			if err != nil {
				p.logger.Error("ingestion failed", "path", path, "err", err)
				report = &IngestReport{Path: path, Err: err}
			}
			reports[i] = report
		})
		if submitErr != nil {
			wg.Done()
			reports[i] = &IngestReport{Path: path, Err: submitErr}
		}
	}
	wg.Wait()

	return reports
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) markFailed(ctx context.Context, invoice *core.Invoice, start time.Time, cause error) {
	invoice.Status = core.StatusFailed
	invoice.ErrorMessage = cause.Error()
	invoice.ProcessingTime = time.Since(start)
	if _, err := p.invoices.UpdateInvoice(ctx, invoice); err != nil {
		p.logger.Error("error recording failed ingestion", "err", err)
	}
}

// buildLineItems flattens the extraction result into storable line items and
// embeds their search texts in one batch.
func (p *Pipeline) buildLineItems(ctx context.Context, invoiceID core.ID, result *extraction.FinalInvoice) ([]*core.LineItem, error) {
	var items []*core.LineItem
	for _, page := range result.Pages {
		for _, extracted := range page.LineItems {
			searchText := BuildSearchText(result.Metadata.SenderName,
				extracted.Section, extracted.Description, extracted.ItemCode)

			items = append(items, &core.LineItem{
				InvoiceId:    invoiceID,
				PageNumber:   page.PageNumber,
				Description:  extracted.Description,
				Section:      extracted.Section,
				ItemCode:     extracted.ItemCode,
				DeliveryDate: extracted.DeliveryDate,
				Quantity:     extracted.Quantity,
				QuantityUnit: extracted.QuantityUnit,
				UnitPrice:    extracted.UnitPrice,
				TotalAmount:  extracted.LineTotal,
				SearchText:   searchText,
			})
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.SearchText
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts, ai.EmbedPassage)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(items) {
		return nil, fmt.Errorf("embedding count mismatch: %d texts, %d vectors",
			len(items), len(vectors))
	}
	for i, vector := range vectors {
		items[i].Vector = vector
	}

	return items, nil
}

// applyMetadata copies extracted invoice metadata onto the stored record.
// Unparseable dates and amounts are dropped rather than failing ingestion.
func applyMetadata(invoice *core.Invoice, result *extraction.FinalInvoice) {
	invoice.InvoiceNumber = result.Metadata.InvoiceNumber
	invoice.SenderName = result.Metadata.SenderName
	invoice.ReceiverName = result.Metadata.ReceiverName
	invoice.TotalPages = result.PagesProcessed

	invoice.Currency = result.Metadata.Currency
	if invoice.Currency == "" {
		invoice.Currency = "USD"
	}

	if result.Metadata.InvoiceDate != "" {
		if date, err := core.ParseISODate(result.Metadata.InvoiceDate); err == nil {
			invoice.InvoiceDate = date
		}
	}

	invoice.TotalAmount = parseAmount(result.Metadata.TotalAmount)
}

// parseAmount extracts a numeric total from a raw amount string, tolerating
// thousands separators and currency symbols around the number.
func parseAmount(raw string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, strings.ReplaceAll(raw, ",", ""))

	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}
