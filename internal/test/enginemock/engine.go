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

// Package enginemock provides a scriptable QueryEngine for tests. By
// default every call returns an unsettled promise that the test settles
// explicitly; per-call hooks allow canned responses
package enginemock

import (
	"sync"

	apollo "github.com/jeff-soriano/apollo-client"
	"github.com/jeff-soriano/apollo-client/promise"
)

// CallKind identifies which engine operation a recorded call came from
type CallKind uint16

const (
	CallIssue CallKind = iota
	CallFetchMore
	CallRefetch
)

func (c CallKind) String() string {
	tmp := map[CallKind]string{
		CallIssue:     "Issue",
		CallFetchMore: "FetchMore",
		CallRefetch:   "Refetch",
	}
	ret, ok := tmp[c]
	if !ok {
		return "Unknown"
	}
	return ret
}

// Call records one engine invocation along with the promise returned for it
type Call struct {
	Kind     CallKind
	Opts     apollo.WatchQueryOptions
	Previous any
	Promise  *promise.Promise
}

// Engine is a mock QueryEngine that records every call
type Engine struct {
	mutex sync.Mutex
	calls []Call
	// IssueHook, when set, supplies the promise returned by Issue instead
	// of a fresh unsettled one. FetchMoreHook and RefetchHook do the same
	// for the other operations
	IssueHook     func(opts apollo.WatchQueryOptions) *promise.Promise
	FetchMoreHook func(opts apollo.WatchQueryOptions, previous any) *promise.Promise
	RefetchHook   func(opts apollo.WatchQueryOptions) *promise.Promise
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) Issue(opts apollo.WatchQueryOptions) *promise.Promise {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	var p *promise.Promise
	if e.IssueHook != nil {
		p = e.IssueHook(opts)
	} else {
		p = promise.New()
	}
	e.calls = append(e.calls, Call{
		Kind:    CallIssue,
		Opts:    opts,
		Promise: p,
	})
	return p
}

func (e *Engine) FetchMore(
	opts apollo.WatchQueryOptions,
	previous any,
) *promise.Promise {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	var p *promise.Promise
	if e.FetchMoreHook != nil {
		p = e.FetchMoreHook(opts, previous)
	} else {
		p = promise.New()
	}
	e.calls = append(e.calls, Call{
		Kind:     CallFetchMore,
		Opts:     opts,
		Previous: previous,
		Promise:  p,
	})
	return p
}

func (e *Engine) Refetch(opts apollo.WatchQueryOptions) *promise.Promise {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	var p *promise.Promise
	if e.RefetchHook != nil {
		p = e.RefetchHook(opts)
	} else {
		p = promise.New()
	}
	e.calls = append(e.calls, Call{
		Kind:    CallRefetch,
		Opts:    opts,
		Promise: p,
	})
	return p
}

// Calls returns a copy of all recorded calls
func (e *Engine) Calls() []Call {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	ret := make([]Call, len(e.calls))
	copy(ret, e.calls)
	return ret
}

// CallCount returns the number of recorded calls of the specified kind
func (e *Engine) CallCount(kind CallKind) int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	count := 0
	for _, call := range e.calls {
		if call.Kind == kind {
			count++
		}
	}
	return count
}

// LastCall returns the most recent recorded call. It panics if no calls
// have been recorded, which makes it usable inline in tests
func (e *Engine) LastCall() Call {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if len(e.calls) == 0 {
		panic("enginemock: no calls recorded")
	}
	return e.calls[len(e.calls)-1]
}
