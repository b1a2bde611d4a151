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

// Package apollo implements a suspense-integrated query reference cache.
//
// The cache deduplicates concurrent fetches keyed by a content fingerprint,
// exposes each pending or settled fetch as a shareable QueryReference, and
// coordinates retain/release lifecycle so a reference shared by multiple
// consumers is torn down exactly once after all of them release it. The
// actual query execution is delegated to a QueryEngine collaborator; a
// cooperative host suspends on the promises this package hands out.
//
// This package is the main entry point into this library. The fingerprint
// and promise packages can be used outside of this one, but it's not a
// primary design goal.
package apollo

import (
	"sync"
	"time"

	"github.com/jeff-soriano/apollo-client/fingerprint"
	"github.com/jeff-soriano/apollo-client/promise"
)

// DefaultAutoDisposeTimeout is how long an unretained reference survives
// before it is disposed automatically
const DefaultAutoDisposeTimeout = 30 * time.Second

// SuspenseCache is a registry mapping fingerprint keys to live query
// references. At most one live reference exists per key at any time.
// Entries are added on miss and removed on disposal. Caches are
// independent of each other; construct one per application or session
// boundary
type SuspenseCache struct {
	engine             QueryEngine
	autoDisposeTimeout time.Duration
	failedFetchPolicy  FailedFetchPolicy
	metrics            CacheMetrics
	refsMutex          sync.Mutex
	refs               map[fingerprint.Key]*QueryReference
	closed             bool
}

// NewSuspenseCache returns a new SuspenseCache that issues fetches through
// the provided engine, configured with the specified options
func NewSuspenseCache(
	engine QueryEngine,
	options ...CacheOption,
) *SuspenseCache {
	c := &SuspenseCache{
		engine:             engine,
		autoDisposeTimeout: DefaultAutoDisposeTimeout,
		failedFetchPolicy:  KeepFailedFetches,
		refs:               make(map[fingerprint.Key]*QueryReference),
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	return c
}

// GetOrCreateReference returns the live reference for the provided key,
// creating one by issuing a fetch through the cache's engine on a miss. A
// failed fetch is still cached: its rejected promise is observed by all
// consumers until release, unless the cache was configured with
// EvictFailedFetches
func (c *SuspenseCache) GetOrCreateReference(
	key fingerprint.Key,
	opts WatchQueryOptions,
) (*QueryReference, error) {
	return c.GetOrCreateReferenceWithFactory(
		key,
		opts,
		c.engine.Issue,
		nil,
	)
}

// GetOrCreateReferenceWithFactory is like GetOrCreateReference but issues
// the fetch through the provided factory instead of the cache's engine. The
// factory is invoked at most once per miss, even under concurrent callers
// observing the same miss. The optional disposer runs exactly once when the
// reference is disposed
func (c *SuspenseCache) GetOrCreateReferenceWithFactory(
	key fingerprint.Key,
	opts WatchQueryOptions,
	factory func(WatchQueryOptions) *promise.Promise,
	disposer func(),
) (*QueryReference, error) {
	c.refsMutex.Lock()
	if c.closed {
		c.refsMutex.Unlock()
		return nil, ErrCacheClosed
	}
	if existing, ok := c.refs[key]; ok {
		c.refsMutex.Unlock()
		c.metrics.recordHit()
		return existing, nil
	}
	ref := newQueryReference(c, key, opts, factory, disposer)
	c.refs[key] = ref
	c.refsMutex.Unlock()
	c.metrics.recordMiss()
	c.metrics.recordFetch()
	// The settlement watcher and auto-dispose timer are installed outside
	// the lock: an already-settled promise runs its watcher synchronously,
	// and that path can take the cache lock again
	ref.watchPromise(ref.Promise())
	ref.startAutoDispose(c.autoDisposeTimeout)
	return ref, nil
}

// Metrics returns the cache's counters
func (c *SuspenseCache) Metrics() *CacheMetrics {
	return &c.metrics
}

// Len returns the number of live references in the cache
func (c *SuspenseCache) Len() int {
	c.refsMutex.Lock()
	defer c.refsMutex.Unlock()
	return len(c.refs)
}

// Close disposes all live references and marks the cache closed. Subsequent
// GetOrCreateReference calls return ErrCacheClosed. Close is safe to call
// more than once
func (c *SuspenseCache) Close() {
	c.refsMutex.Lock()
	if c.closed {
		c.refsMutex.Unlock()
		return
	}
	c.closed = true
	refs := make([]*QueryReference, 0, len(c.refs))
	for _, ref := range c.refs {
		refs = append(refs, ref)
	}
	c.refs = make(map[fingerprint.Key]*QueryReference)
	for _, ref := range refs {
		ref.mutex.Lock()
		ref.disposed = true
		if ref.autoDispose != nil {
			ref.autoDispose.Stop()
			ref.autoDispose = nil
		}
		ref.subscribers = nil
		ref.mutex.Unlock()
	}
	c.refsMutex.Unlock()
	for _, ref := range refs {
		ref.disposeOnce.Do(func() {
			if ref.disposeFn != nil {
				ref.disposeFn()
			}
		})
		c.metrics.recordDisposal()
	}
}

// handleFailedFetch applies the configured failed-fetch policy when a
// reference's current promise rejects. Under EvictFailedFetches the entry
// is removed immediately so the next identical request re-issues; the
// reference itself stays alive for consumers already holding it
func (c *SuspenseCache) handleFailedFetch(r *QueryReference) {
	if c.failedFetchPolicy != EvictFailedFetches {
		return
	}
	c.refsMutex.Lock()
	if existing, ok := c.refs[r.key]; ok && existing == r {
		delete(c.refs, r.key)
		c.refsMutex.Unlock()
		c.metrics.recordEvictedFailure()
		return
	}
	c.refsMutex.Unlock()
}
