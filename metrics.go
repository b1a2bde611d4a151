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

import "sync/atomic"

// CacheMetrics tracks counters for a SuspenseCache.
// Uses atomic counters for thread-safe operation.
type CacheMetrics struct {
	hits             atomic.Uint64
	misses           atomic.Uint64
	fetches          atomic.Uint64
	refetches        atomic.Uint64
	fetchMores       atomic.Uint64
	disposals        atomic.Uint64
	discardedResults atomic.Uint64
	evictedFailures  atomic.Uint64
}

// CacheMetricsSnapshot is a point-in-time copy of the counters
type CacheMetricsSnapshot struct {
	Hits             uint64
	Misses           uint64
	Fetches          uint64
	Refetches        uint64
	FetchMores       uint64
	Disposals        uint64
	DiscardedResults uint64
	EvictedFailures  uint64
}

// Snapshot returns a copy of the current counter values
func (m *CacheMetrics) Snapshot() CacheMetricsSnapshot {
	return CacheMetricsSnapshot{
		Hits:             m.hits.Load(),
		Misses:           m.misses.Load(),
		Fetches:          m.fetches.Load(),
		Refetches:        m.refetches.Load(),
		FetchMores:       m.fetchMores.Load(),
		Disposals:        m.disposals.Load(),
		DiscardedResults: m.discardedResults.Load(),
		EvictedFailures:  m.evictedFailures.Load(),
	}
}

func (m *CacheMetrics) recordHit()             { m.hits.Add(1) }
func (m *CacheMetrics) recordMiss()            { m.misses.Add(1) }
func (m *CacheMetrics) recordFetch()           { m.fetches.Add(1) }
func (m *CacheMetrics) recordRefetch()         { m.refetches.Add(1) }
func (m *CacheMetrics) recordFetchMore()       { m.fetchMores.Add(1) }
func (m *CacheMetrics) recordDisposal()        { m.disposals.Add(1) }
func (m *CacheMetrics) recordDiscardedResult() { m.discardedResults.Add(1) }
func (m *CacheMetrics) recordEvictedFailure()  { m.evictedFailures.Add(1) }
