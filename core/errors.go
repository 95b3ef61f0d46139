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

import "errors"

// Domain validation errors
var (
	// ErrInvalidInvoice indicates an Invoice failed validation.
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrInvalidLineItem indicates a LineItem failed validation.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrInvalidStatus indicates an unrecognized processing status value.
	ErrInvalidStatus = errors.New("invalid processing status")

	// ErrEmptyFilename indicates the Filename field is empty.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrEmptyFileHash indicates the FileHash field is empty.
	ErrEmptyFileHash = errors.New("file hash cannot be empty")

	// ErrEmptyDescription indicates the line item Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrInvalidPageNumber indicates a page number below 1.
	ErrInvalidPageNumber = errors.New("page number must be >= 1")

	// ErrInvalidLimit indicates a non-positive result limit.
	ErrInvalidLimit = errors.New("limit must be > 0")
)
