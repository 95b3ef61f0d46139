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


package core

import (
	"fmt"
	"time"
)

// ISODateLayout is the calendar date format used throughout the system.
const ISODateLayout = "2006-01-02"

// ParseISODate parses an ISO 8601 calendar date (YYYY-MM-DD) in UTC.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISODateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ValidateInvoice validates an Invoice according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - FileHash must not be empty
//   - Status must be a known value
//
// NOT validated (populated during or after extraction):
//   - Business fields (InvoiceNumber, InvoiceDate, SenderName, ...)
//   - ID (0 is valid from database sequences)
func ValidateInvoice(invoice *Invoice) error {
	if invoice == nil {
		return fmt.Errorf("%w: invoice is nil", ErrInvalidInvoice)
	}

	if invoice.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInvoice, ErrEmptyFilename)
	}

	if invoice.FileHash == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInvoice, ErrEmptyFileHash)
	}

	if err := ValidateProcessingStatus(invoice.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInvoice, err)
	}

	return nil
}

// ValidateLineItem validates a LineItem according to domain rules.
//
// Validation rules:
//   - Description must not be empty
//   - PageNumber must be >= 1
//
// NOT validated (populated by ingestion):
//   - Vector and SearchText (can be empty until embedding runs)
//   - ID (0 is valid from database sequences)
func ValidateLineItem(item *LineItem) error {
	if item == nil {
		return fmt.Errorf("%w: line item is nil", ErrInvalidLineItem)
	}

	if item.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLineItem, ErrEmptyDescription)
	}

	if item.PageNumber < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidLineItem, ErrInvalidPageNumber)
	}

	return nil
}

// ValidateProcessingStatus validates that a ProcessingStatus has a known value.
func ValidateProcessingStatus(status ProcessingStatus) error {
	if status != StatusProcessing && status != StatusCompleted && status != StatusFailed {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}
