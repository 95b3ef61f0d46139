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


// Package query turns search criteria into retrieval plans and executes them.
//
// A line item search runs in three steps:
//
//  1. Resolve: invoice-level criteria (number, sender, date range) are
//     resolved to a set of parent invoice IDs up front, so the item-level
//     stages only ever filter on IDs.
//  2. Plan: the criteria and resolved context become a declarative
//     storage.RetrievalPlan. Semantic queries lead with a vector stage;
//     purely structured queries lead with a match stage and deterministic
//     ordering.
//  3. Execute: the plan is handed to a storage.PlanExecutor.
//
// Invoice searches skip resolution and plan directly against the registry.
package query
