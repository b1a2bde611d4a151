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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jeff-soriano/apollo-client/fingerprint"
	"github.com/jeff-soriano/apollo-client/promise"
)

// The QueryReference type wraps one deduplicated fetch's lifecycle: its
// current promise, retain count, last applied options, and disposal. A
// reference is created by a SuspenseCache on a cache miss and may be shared
// by any number of consumers. Its promise can be replaced in place by
// ApplyOptions, FetchMore, or Refetch without changing the reference's
// identity
type QueryReference struct {
	id      uuid.UUID
	key     fingerprint.Key
	cache   *SuspenseCache
	factory func(WatchQueryOptions) *promise.Promise

	mutex          sync.Mutex
	current        *promise.Promise
	lastOptions    WatchQueryOptions
	retainCount    int
	disposed       bool
	autoDispose    *time.Timer
	disposeFn      func()
	disposeOnce    sync.Once
	subscribers    map[uint64]func(*promise.Promise)
	nextSubscriber uint64
}

func newQueryReference(
	cache *SuspenseCache,
	key fingerprint.Key,
	opts WatchQueryOptions,
	factory func(WatchQueryOptions) *promise.Promise,
	disposeFn func(),
) *QueryReference {
	r := &QueryReference{
		id:          uuid.New(),
		key:         key,
		cache:       cache,
		factory:     factory,
		lastOptions: snapshotOptions(opts),
		disposeFn:   disposeFn,
		subscribers: make(map[uint64]func(*promise.Promise)),
	}
	r.current = factory(r.lastOptions)
	return r
}

// Id returns the reference's unique identity. It is minted once at creation
// and never changes, even when the current promise is replaced
func (r *QueryReference) Id() uuid.UUID {
	return r.id
}

// Key returns the fingerprint key this reference is cached under
func (r *QueryReference) Key() fingerprint.Key {
	return r.key
}

// Promise returns the current promise for this reference
func (r *QueryReference) Promise() *promise.Promise {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.current
}

// Disposed returns whether this reference has been disposed
func (r *QueryReference) Disposed() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.disposed
}

// Retain extends the reference's lifetime and returns a release function.
// The release function is idempotent: calling it more than once decrements
// the retain count exactly once. When the retain count returns to zero the
// reference is disposed and removed from its cache. Retaining an already
// disposed reference returns a no-op release function
func (r *QueryReference) Retain() func() {
	r.mutex.Lock()
	if r.disposed {
		r.mutex.Unlock()
		return func() {}
	}
	r.retainCount++
	if r.autoDispose != nil {
		r.autoDispose.Stop()
		r.autoDispose = nil
	}
	r.mutex.Unlock()
	var once sync.Once
	return func() {
		once.Do(r.release)
	}
}

func (r *QueryReference) release() {
	r.mutex.Lock()
	if r.disposed {
		r.mutex.Unlock()
		return
	}
	r.retainCount--
	remaining := r.retainCount
	r.mutex.Unlock()
	if remaining <= 0 {
		r.maybeDispose()
	}
}

// ApplyOptions delegates to option-change detection. When the new options
// semantically differ from the last applied ones, a new fetch is issued, the
// current promise is replaced, and the new promise is returned. Otherwise
// the existing promise is returned unchanged. The configured fetch factory
// must not synchronously call back into the reference
func (r *QueryReference) ApplyOptions(opts WatchQueryOptions) *promise.Promise {
	r.mutex.Lock()
	if r.disposed {
		current := r.current
		r.mutex.Unlock()
		return current
	}
	if !OptionsDidChange(r.lastOptions, opts) {
		current := r.current
		r.mutex.Unlock()
		return current
	}
	r.lastOptions = snapshotOptions(opts)
	next := r.factory(r.lastOptions)
	subscribers := r.setPromiseLocked(next)
	r.mutex.Unlock()
	r.cache.metrics.recordFetch()
	r.watchPromise(next)
	notifySubscribers(subscribers, next)
	return next
}

// FetchMore issues a follow-up request for additional data and replaces the
// current promise with one that resolves to the combined result. The
// provided variables are overlaid onto the reference's current variables for
// the request only; the reference's applied options are not modified.
// Retained consumers are notified so their wrappers can be updated in place
func (r *QueryReference) FetchMore(opts FetchMoreOptions) *promise.Promise {
	r.mutex.Lock()
	if r.disposed {
		current := r.current
		r.mutex.Unlock()
		return current
	}
	var previous any
	if result := r.current.Poll(); result.Status == promise.StatusFulfilled {
		previous = result.Value
	}
	reqOpts := snapshotOptions(r.lastOptions)
	reqOpts.Variables = overlayVariables(reqOpts.Variables, opts.Variables)
	raw := r.cache.engine.FetchMore(reqOpts, previous)
	merged, resolve, reject := promise.NewWithResolvers()
	updateQuery := opts.UpdateQuery
	raw.OnSettled(func(result promise.Result) {
		if result.Status == promise.StatusRejected {
			reject(result.Err)
			return
		}
		if updateQuery != nil {
			resolve(updateQuery(previous, result.Value))
			return
		}
		resolve(result.Value)
	})
	subscribers := r.setPromiseLocked(merged)
	r.mutex.Unlock()
	r.cache.metrics.recordFetchMore()
	r.watchPromise(merged)
	notifySubscribers(subscribers, merged)
	return merged
}

// Refetch re-executes the query from the network. The provided variables
// are shallow-merged into the reference's current variables and become part
// of its applied options. The current promise is always replaced, with no
// dedup check, and retained consumers are notified
func (r *QueryReference) Refetch(variables map[string]any) *promise.Promise {
	r.mutex.Lock()
	if r.disposed {
		current := r.current
		r.mutex.Unlock()
		return current
	}
	opts := snapshotOptions(r.lastOptions)
	opts.Variables = overlayVariables(opts.Variables, variables)
	r.lastOptions = opts
	next := r.cache.engine.Refetch(opts)
	subscribers := r.setPromiseLocked(next)
	r.mutex.Unlock()
	r.cache.metrics.recordRefetch()
	r.watchPromise(next)
	notifySubscribers(subscribers, next)
	return next
}

// Subscribe registers a callback invoked whenever the current promise is
// replaced. It returns an unsubscribe function. Subscribers are not invoked
// after the reference is disposed
func (r *QueryReference) Subscribe(
	callback func(*promise.Promise),
) func() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.disposed {
		return func() {}
	}
	subscriberId := r.nextSubscriber
	r.nextSubscriber++
	r.subscribers[subscriberId] = callback
	return func() {
		r.mutex.Lock()
		defer r.mutex.Unlock()
		delete(r.subscribers, subscriberId)
	}
}

// setPromiseLocked replaces the current promise and returns the subscriber
// callbacks to invoke. Callers must hold r.mutex and invoke the returned
// callbacks after releasing it
func (r *QueryReference) setPromiseLocked(
	next *promise.Promise,
) []func(*promise.Promise) {
	r.current = next
	ret := make([]func(*promise.Promise), 0, len(r.subscribers))
	for _, callback := range r.subscribers {
		ret = append(ret, callback)
	}
	return ret
}

func notifySubscribers(
	subscribers []func(*promise.Promise),
	next *promise.Promise,
) {
	for _, callback := range subscribers {
		callback(next)
	}
}

// watchPromise observes settlement of a promise installed as current. A
// settlement that arrives after disposal, or after the promise has been
// superseded, produces no observable callback. Must not be called while
// holding r.mutex, since the callback can fire synchronously
func (r *QueryReference) watchPromise(p *promise.Promise) {
	p.OnSettled(func(result promise.Result) {
		r.mutex.Lock()
		disposed := r.disposed
		stale := r.current != p
		opts := r.lastOptions
		r.mutex.Unlock()
		if disposed {
			r.cache.metrics.recordDiscardedResult()
			return
		}
		if stale {
			return
		}
		if result.Status == promise.StatusRejected {
			r.cache.handleFailedFetch(r)
			if opts.OnError != nil {
				opts.OnError(result.Err)
			}
			return
		}
		if opts.OnCompleted != nil {
			opts.OnCompleted(result.Value)
		}
	})
}

// startAutoDispose arms the timer that disposes a reference that is never
// retained. The first Retain cancels it
func (r *QueryReference) startAutoDispose(timeout time.Duration) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.disposed || r.retainCount > 0 {
		return
	}
	r.autoDispose = time.AfterFunc(timeout, r.maybeDispose)
}

// maybeDispose disposes the reference if and only if its retain count is
// still zero. The count is re-checked under both the cache lock and the
// reference lock so a retain that arrives between the triggering release
// and this call keeps the reference alive
func (r *QueryReference) maybeDispose() {
	c := r.cache
	c.refsMutex.Lock()
	r.mutex.Lock()
	if r.disposed || r.retainCount > 0 {
		r.mutex.Unlock()
		c.refsMutex.Unlock()
		return
	}
	r.disposed = true
	if r.autoDispose != nil {
		r.autoDispose.Stop()
		r.autoDispose = nil
	}
	r.subscribers = nil
	// Only remove the entry if it still points at this reference, since a
	// newer reference may have replaced it under the same key
	if existing, ok := c.refs[r.key]; ok && existing == r {
		delete(c.refs, r.key)
	}
	r.mutex.Unlock()
	c.refsMutex.Unlock()
	r.disposeOnce.Do(func() {
		if r.disposeFn != nil {
			r.disposeFn()
		}
	})
	c.metrics.recordDisposal()
}

// overlayVariables returns a copy of base with the entries of overlay
// applied on top. A nil overlay returns base unchanged
func overlayVariables(
	base map[string]any,
	overlay map[string]any,
) map[string]any {
	if overlay == nil {
		return base
	}
	ret := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		ret[k] = v
	}
	for k, v := range overlay {
		ret[k] = v
	}
	return ret
}
