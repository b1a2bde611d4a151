// Copyright 2026 Jeff Soriano
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

package apollo

import (
	"github.com/jeff-soriano/apollo-client/promise"
)

// QueryEngine is the contract for the external component that actually
// executes queries. Implementations are expected to be idempotent for
// identical options; deduplication of concurrent identical requests is this
// library's responsibility, not the engine's. Retry and transport policy
// live entirely inside the engine
type QueryEngine interface {
	// Issue executes the query described by the provided options and
	// returns a promise of its result
	Issue(opts WatchQueryOptions) *promise.Promise
	// FetchMore executes a follow-up request for additional data. The
	// previous result is provided so the engine can compute pagination
	// inputs; result merging is handled by the caller
	FetchMore(opts WatchQueryOptions, previous any) *promise.Promise
	// Refetch re-executes the query from the network, bypassing any
	// engine-side caching
	Refetch(opts WatchQueryOptions) *promise.Promise
}

// FetchMoreOptions describes a FetchMore request
type FetchMoreOptions struct {
	// Variables are overlaid onto the reference's current variables for
	// the follow-up request
	Variables map[string]any
	// UpdateQuery combines the previous result with the incoming one. When
	// nil, the incoming result replaces the previous one
	UpdateQuery func(previous any, incoming any) any
}
