// Seeder populates a database with sample invoices for demos and manual
// testing. It runs the real ingestion pipeline against the mock AI provider,
// so no model services are needed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/invoicit"
	"github.com/poiesic/invoicit/ai/mock"
	"github.com/poiesic/invoicit/ingestion"
)

// Sample documents, one string per invoice. Form feeds separate pages.
var documents = []string{
	"Invoice INV-2024-001 from Dell Technologies\n" +
		"Laptop docking station\nExtended warranty\nUSB-C cable",
	"Invoice INV-2024-002 from Amazon Web Services\n" +
		"Compute usage January\nStorage usage January\fData transfer January\nSupport plan",
	"Invoice INV-2024-003 from Office Depot\n" +
		"Printer paper A4\nToner cartridge black\nStapler",
	"Invoice INV-2024-004 from Acme Consulting\n" +
		"Discovery workshop\nArchitecture review\fImplementation support\nTravel expenses",
	"Invoice INV-2024-005 from CloudFlare Inc\n" +
		"Pro plan subscription\nAdditional seats",
}

var (
	dbPath = flag.String("db", "./invoice_db", "path to BadgerDB database directory")
	srcDir = flag.String("src", "", "directory of invoice files to ingest instead of samples")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// materialize writes the sample documents to files so they can go through
// the regular file-based pipeline.
func materialize(dir string) ([]string, error) {
	paths := make([]string, 0, len(documents))
	for i, doc := range documents {
		path := filepath.Join(dir, fmt.Sprintf("sample-%03d.txt", i+1))
		if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// collectFiles lists the regular files in a directory.
func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func main() {
	system, err := invoicit.OpenSystem(*dbPath,
		invoicit.WithProvider(mock.NewMockProvider()))
	if err != nil {
		panic(err)
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline(ingestion.NewTextParser())
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	var paths []string
	if *srcDir != "" {
		paths, err = collectFiles(*srcDir)
	} else {
		tmpDir, dirErr := os.MkdirTemp("", "invoicit-seed-*")
		if dirErr != nil {
			panic(dirErr)
		}
		defer os.RemoveAll(tmpDir)
		paths, err = materialize(tmpDir)
	}
	if err != nil {
		panic(err)
	}

	reports := pipeline.IngestBatch(context.Background(), paths)
	for _, report := range reports {
		switch {
		case report.Err != nil:
			fmt.Printf("ERROR  %s: %v\n", report.Path, report.Err)
		case report.Skipped:
			fmt.Printf("SKIP   %s (invoice %d)\n", report.Path, report.InvoiceId)
		default:
			fmt.Printf("OK     %s: invoice %d, %d line items\n",
				report.Path, report.InvoiceId, report.LineItems)
		}
	}
}
