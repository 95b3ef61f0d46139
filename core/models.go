package core

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// HashFile computes the BLAKE2b-256 digest of a file's contents as a hex string.
// Used to detect duplicate documents before ingestion.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New(32, nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ProcessingStatus describes the lifecycle state of an ingested invoice.
type ProcessingStatus int

const (
	// StatusProcessing means ingestion is in flight.
	StatusProcessing ProcessingStatus = iota + 1
	// StatusCompleted means extraction finished and results were stored.
	StatusCompleted
	// StatusFailed means extraction failed; ErrorMessage holds the cause.
	StatusFailed
)

// String returns the canonical uppercase name of the status.
func (s ProcessingStatus) String() string {
	switch s {
	case StatusProcessing:
		return "PROCESSING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// ParseProcessingStatus converts a canonical status name to a ProcessingStatus.
// Returns ErrInvalidStatus for unrecognized names.
func ParseProcessingStatus(name string) (ProcessingStatus, error) {
	switch name {
	case "PROCESSING":
		return StatusProcessing, nil
	case "COMPLETED":
		return StatusCompleted, nil
	case "FAILED":
		return StatusFailed, nil
	default:
		return 0, ErrInvalidStatus
	}
}

// Invoice represents one ingested invoice document.
// Business fields (InvoiceNumber, InvoiceDate, SenderName) are populated by
// the extraction chain and used for structured filtering.
type Invoice struct {
	Id       ID
	Filename string
	FileHash string // BLAKE2b digest of the source file, unique per invoice

	UploadDate     time.Time
	Status         ProcessingStatus
	ErrorMessage   string
	TotalPages     int
	ProcessingTime time.Duration

	InvoiceNumber string
	InvoiceDate   time.Time // zero when the date could not be extracted
	SenderName    string
	ReceiverName  string
	Currency      string
	TotalAmount   *float64

	InsertedAt time.Time
	UpdatedAt  time.Time
}

// LineItem represents a single row extracted from an invoice table.
// SearchText and Vector are populated during ingestion for semantic search.
type LineItem struct {
	Id        ID
	InvoiceId ID

	PageNumber  int
	Description string
	Section     string // table section header, e.g. "Labor" or "Materials"

	ItemCode     string
	DeliveryDate string // ISO 8601 or near-ISO, as extracted
	Quantity     *float64
	QuantityUnit string
	UnitPrice    *float64
	TotalAmount  *float64

	SearchText string
	Vector     []float32

	InsertedAt time.Time
	UpdatedAt  time.Time
}
