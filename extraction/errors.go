package extraction

import "errors"

var (
	// ErrExtractorRequired is returned when a Chainer is constructed without
	// a page extractor.
	ErrExtractorRequired = errors.New("page extractor is required")

	// ErrNoPages is returned when extraction is attempted on a document with
	// no pages.
	ErrNoPages = errors.New("no pages provided for extraction")
)
