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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/invoicit"
	"github.com/poiesic/invoicit/ai"
	"github.com/poiesic/invoicit/ai/openai"
	"github.com/poiesic/invoicit/core"
	"github.com/poiesic/invoicit/ingestion"
	"github.com/poiesic/invoicit/reembed"
	"github.com/poiesic/invoicit/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "invoicit",
		Usage: "Invoice ingestion and hybrid retrieval system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest invoice documents",
				ArgsUsage: "<file> [file...]",
				Action:    ingestCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents to process concurrently",
						Value: 5,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a natural language question about ingested invoices",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:    "answer",
						Aliases: []string{"a"},
						Usage:   "Generate a natural language answer from the results",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate line item embeddings with a new model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of line items to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N line items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:  "search",
				Usage: "Search with explicit criteria, bypassing the query router",
				Subcommands: []*cli.Command{
					{
						Name:   "items",
						Usage:  "Search line items",
						Action: searchItemsCommand,
						Flags: append(commonFlags(),
							&cli.StringFlag{Name: "query", Usage: "Semantic search terms"},
							&cli.StringFlag{Name: "invoice-number", Usage: "Exact invoice number"},
							&cli.StringFlag{Name: "sender", Usage: "Sender name (substring match)"},
							&cli.IntFlag{Name: "page", Usage: "Exact page number"},
							&cli.IntFlag{Name: "min-page", Usage: "Lowest page number"},
							&cli.IntFlag{Name: "max-page", Usage: "Highest page number"},
							&cli.StringFlag{Name: "date-start", Usage: "Earliest invoice date (YYYY-MM-DD)"},
							&cli.StringFlag{Name: "date-end", Usage: "Latest invoice date (YYYY-MM-DD)"},
							&cli.Float64Flag{Name: "min-amount", Usage: "Lowest line item total"},
							&cli.Float64Flag{Name: "max-amount", Usage: "Highest line item total"},
							&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: core.DefaultLineItemLimit},
						),
					},
					{
						Name:   "invoices",
						Usage:  "Search the invoice registry",
						Action: searchInvoicesCommand,
						Flags: append(commonFlags(),
							&cli.StringFlag{Name: "invoice-number", Usage: "Exact invoice number"},
							&cli.StringFlag{Name: "sender", Usage: "Sender name (substring match)"},
							&cli.StringFlag{Name: "filename", Usage: "Source filename (substring match)"},
							&cli.StringFlag{Name: "status", Usage: "Processing status (PROCESSING, COMPLETED, FAILED)"},
							&cli.StringFlag{Name: "date-start", Usage: "Earliest invoice date (YYYY-MM-DD)"},
							&cli.StringFlag{Name: "date-end", Usage: "Latest invoice date (YYYY-MM-DD)"},
						),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags returns the storage and AI service flags shared by every
// command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name for extraction and routing",
			Value: "qwen2.5:7b",
		},
	}
}

func openSystem(c *cli.Context) (*invoicit.System, error) {
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}

	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithChatHost(chatHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	system, err := invoicit.OpenSystem(c.String("db"), invoicit.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return system, nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	repos, err := badger.NewRepositories(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		// Chat settings are unused here but required by validation
		ai.WithChatHost(c.String("embedding-host")),
		ai.WithChatModel("unused"),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repos.Invoices, repos.LineItems,
		embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline(ingestion.NewTextParser(),
		ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	reports := pipeline.IngestBatch(context.Background(), c.Args().Slice())

	failures := 0
	for _, report := range reports {
		switch {
		case report.Err != nil:
			failures++
			fmt.Printf("ERROR   %s: %v\n", report.Path, report.Err)
		case report.Skipped:
			fmt.Printf("SKIP    %s: already ingested as invoice %d\n",
				report.Path, report.InvoiceId)
		default:
			fmt.Printf("OK      %s: invoice %d, %d line items\n",
				report.Path, report.InvoiceId, report.LineItems)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(reports))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	asker, err := system.NewRetrievalService()
	if err != nil {
		return fmt.Errorf("failed to create retrieval service: %w", err)
	}

	response, err := asker.Ask(context.Background(), question, c.Bool("answer"))
	if err != nil {
		return err
	}

	switch {
	case response.Answer != "":
		fmt.Println(response.Answer)
		if len(response.LineItems) > 0 {
			fmt.Println("\n--- Sources ---")
			fmt.Println(formatLineItems(response.LineItems))
		}
	case response.Invoices != nil:
		fmt.Println(formatInvoices(response.Invoices))
	default:
		fmt.Println(formatLineItems(response.LineItems))
	}

	return nil
}

func searchItemsCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	queries, err := system.NewQueryService()
	if err != nil {
		return fmt.Errorf("failed to create query service: %w", err)
	}

	criteria := &core.LineItemSearchCriteria{
		QueryText:        c.String("query"),
		InvoiceNumber:    c.String("invoice-number"),
		SenderName:       c.String("sender"),
		InvoiceDateStart: c.String("date-start"),
		InvoiceDateEnd:   c.String("date-end"),
		Limit:            c.Int("limit"),
	}
	if c.IsSet("page") {
		page := c.Int("page")
		criteria.PageNumber = &page
	}
	if c.IsSet("min-page") {
		minPage := c.Int("min-page")
		criteria.MinPage = &minPage
	}
	if c.IsSet("max-page") {
		maxPage := c.Int("max-page")
		criteria.MaxPage = &maxPage
	}
	if c.IsSet("min-amount") {
		minAmount := c.Float64("min-amount")
		criteria.MinAmount = &minAmount
	}
	if c.IsSet("max-amount") {
		maxAmount := c.Float64("max-amount")
		criteria.MaxAmount = &maxAmount
	}

	results, err := queries.SearchLineItems(context.Background(), criteria)
	if err != nil {
		return err
	}

	fmt.Println(formatLineItems(results))
	return nil
}

func searchInvoicesCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	queries, err := system.NewQueryService()
	if err != nil {
		return fmt.Errorf("failed to create query service: %w", err)
	}

	criteria := &core.InvoiceSearchCriteria{
		InvoiceNumber: c.String("invoice-number"),
		SenderName:    c.String("sender"),
		FilenameQuery: c.String("filename"),
		StartDate:     c.String("date-start"),
		EndDate:       c.String("date-end"),
	}
	if name := c.String("status"); name != "" {
		status, err := core.ParseProcessingStatus(name)
		if err != nil {
			return fmt.Errorf("invalid status %q: must be one of PROCESSING, COMPLETED, FAILED", name)
		}
		criteria.Status = &status
	}

	results, err := queries.SearchInvoices(context.Background(), criteria)
	if err != nil {
		return err
	}

	fmt.Println(formatInvoices(results))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
