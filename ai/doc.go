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


// Package ai defines the contracts for the external model services the system
// consumes: text embedding, per-page invoice extraction, query intent routing,
// and answer generation.
//
// Production implementations live in the openai subpackage and target
// OpenAI-compatible APIs. Test doubles live in the mock subpackage.
//
// The value types in this package (PageState, InvoiceContext, extracted line
// items) are the wire shapes exchanged with the extraction model. PageState is
// the rolling context threaded from one page to the next when a multi-page
// document is processed sequentially.
package ai
