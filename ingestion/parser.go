package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// ParseResult holds the page texts produced by parsing one document.
type ParseResult struct {
	Filename string
	// Pages holds the text of each page, in document order.
	Pages []string
	// Content is the full document text.
	Content string
}

// DocumentParser converts a document file into page texts. Implementations
// wrap whatever external parsing backend is in use; TextParser covers plain
// text files without one.
type DocumentParser interface {
	Parse(ctx context.Context, path string) (*ParseResult, error)
}

// TextParser parses plain text documents, treating a form feed character as
// a page separator.
type TextParser struct{}

var _ DocumentParser = (*TextParser)(nil)

// NewTextParser creates a parser for plain text documents.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse reads the file and splits it into pages on form feed characters.
func (p *TextParser) Parse(ctx context.Context, path string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	var pages []string
	for _, page := range strings.Split(content, "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, page)
	}

	return &ParseResult{
		Filename: filepath.Base(path),
		Pages:    pages,
		Content:  content,
	}, nil
}
