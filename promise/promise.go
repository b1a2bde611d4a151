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

// Package promise provides the settlement primitive used to represent an
// in-flight query. A Promise settles at most once, either fulfilled with a
// value or rejected with an error. Consumers never block inside this package
// unless they choose to via Await; Poll returns a tagged result immediately
// so a cooperative host can decide whether and how to suspend.
package promise

import (
	"context"
	"sync"
)

// Status represents the settlement state of a Promise
type Status int

const (
	StatusPending Status = iota
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	tmp := map[Status]string{
		StatusPending:   "Pending",
		StatusFulfilled: "Fulfilled",
		StatusRejected:  "Rejected",
	}
	ret, ok := tmp[s]
	if !ok {
		return "Unknown"
	}
	return ret
}

// Result is the tagged settlement state returned by Poll. Value is only
// meaningful when Status is StatusFulfilled, Err only when StatusRejected
type Result struct {
	Status Status
	Value  any
	Err    error
}

// Promise is a single-settlement container for an asynchronous result
type Promise struct {
	mutex     sync.Mutex
	done      chan struct{}
	status    Status
	value     any
	err       error
	callbacks []func(Result)
}

// New returns an unsettled Promise
func New() *Promise {
	return &Promise{
		done: make(chan struct{}),
	}
}

// NewWithResolvers returns an unsettled Promise along with its resolve and
// reject functions. Whichever function is called first settles the promise;
// later calls to either are no-ops
func NewWithResolvers() (*Promise, func(any), func(error)) {
	p := New()
	return p, p.Resolve, p.Reject
}

// Resolved returns a Promise already fulfilled with the provided value
func Resolved(value any) *Promise {
	p := New()
	p.Resolve(value)
	return p
}

// Rejected returns a Promise already rejected with the provided error
func Rejected(err error) *Promise {
	p := New()
	p.Reject(err)
	return p
}

// Resolve fulfills the promise with the provided value. It does nothing if
// the promise has already settled
func (p *Promise) Resolve(value any) {
	p.settle(Result{Status: StatusFulfilled, Value: value})
}

// Reject settles the promise with the provided error. It does nothing if
// the promise has already settled
func (p *Promise) Reject(err error) {
	p.settle(Result{Status: StatusRejected, Err: err})
}

func (p *Promise) settle(result Result) {
	p.mutex.Lock()
	if p.status != StatusPending {
		p.mutex.Unlock()
		return
	}
	p.status = result.Status
	p.value = result.Value
	p.err = result.Err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mutex.Unlock()
	// Callbacks run outside the lock so they can safely call back into the
	// promise
	for _, callback := range callbacks {
		callback(result)
	}
}

// Poll returns the current settlement state without blocking
func (p *Promise) Poll() Result {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return Result{
		Status: p.status,
		Value:  p.value,
		Err:    p.err,
	}
}

// Done returns a channel that is closed when the promise settles
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or the provided context is
// canceled. On settlement it returns the fulfilled value or rejection error
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
	}
	result := p.Poll()
	if result.Status == StatusRejected {
		return nil, result.Err
	}
	return result.Value, nil
}

// OnSettled registers a callback to run when the promise settles. If the
// promise has already settled, the callback runs immediately on the calling
// goroutine
func (p *Promise) OnSettled(callback func(Result)) {
	p.mutex.Lock()
	if p.status == StatusPending {
		p.callbacks = append(p.callbacks, callback)
		p.mutex.Unlock()
		return
	}
	result := Result{
		Status: p.status,
		Value:  p.value,
		Err:    p.err,
	}
	p.mutex.Unlock()
	callback(result)
}
