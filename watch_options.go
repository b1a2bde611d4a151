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
	"bytes"

	"github.com/jeff-soriano/apollo-client/fingerprint"
	"github.com/jinzhu/copier"
)

// FetchPolicy controls how a query interacts with the normalized cache
type FetchPolicy uint16

const (
	FetchPolicyCacheFirst FetchPolicy = iota
	FetchPolicyNetworkOnly
	FetchPolicyNoCache
	FetchPolicyCacheAndNetwork
)

func (f FetchPolicy) String() string {
	tmp := map[FetchPolicy]string{
		FetchPolicyCacheFirst:      "CacheFirst",
		FetchPolicyNetworkOnly:     "NetworkOnly",
		FetchPolicyNoCache:         "NoCache",
		FetchPolicyCacheAndNetwork: "CacheAndNetwork",
	}
	ret, ok := tmp[f]
	if !ok {
		return "Unknown"
	}
	return ret
}

// ErrorPolicy controls how partial errors in a fetch result are surfaced
type ErrorPolicy uint16

const (
	ErrorPolicyNone ErrorPolicy = iota
	ErrorPolicyIgnore
	ErrorPolicyAll
)

func (e ErrorPolicy) String() string {
	tmp := map[ErrorPolicy]string{
		ErrorPolicyNone:   "None",
		ErrorPolicyIgnore: "Ignore",
		ErrorPolicyAll:    "All",
	}
	ret, ok := tmp[e]
	if !ok {
		return "Unknown"
	}
	return ret
}

// RefetchWritePolicy controls whether a refetch result merges with or
// overwrites existing data in the normalized cache
type RefetchWritePolicy uint16

const (
	RefetchWriteOverwrite RefetchWritePolicy = iota
	RefetchWriteMerge
)

func (r RefetchWritePolicy) String() string {
	tmp := map[RefetchWritePolicy]string{
		RefetchWriteOverwrite: "Overwrite",
		RefetchWriteMerge:     "Merge",
	}
	ret, ok := tmp[r]
	if !ok {
		return "Unknown"
	}
	return ret
}

// WatchQueryOptions is the fetch configuration for one query
type WatchQueryOptions struct {
	// Query is the query identity (document name or hash)
	Query string
	// Variables are the values substituted into the query
	Variables map[string]any
	FetchPolicy        FetchPolicy
	ErrorPolicy        ErrorPolicy
	RefetchWritePolicy RefetchWritePolicy
	// Context is an opaque payload forwarded to the query engine with each
	// request
	Context map[string]any
	ReturnPartialData bool
	CanonizeResults   bool
	// OnCompleted and OnError are caller-only callbacks. They never affect
	// the issued request and are ignored by change detection
	OnCompleted func(any)
	OnError     func(error)
}

// OptionsDidChange reports whether moving from last to next requires a new
// fetch. Each request-affecting field is compared explicitly; caller-only
// callbacks are deliberately excluded so that a consumer passing a fresh
// closure on every render does not trigger a duplicate fetch
func OptionsDidChange(last WatchQueryOptions, next WatchQueryOptions) bool {
	if last.Query != next.Query {
		return true
	}
	if last.FetchPolicy != next.FetchPolicy {
		return true
	}
	if last.ErrorPolicy != next.ErrorPolicy {
		return true
	}
	if last.RefetchWritePolicy != next.RefetchWritePolicy {
		return true
	}
	if last.ReturnPartialData != next.ReturnPartialData {
		return true
	}
	if last.CanonizeResults != next.CanonizeResults {
		return true
	}
	if !variablesEqual(last.Variables, next.Variables) {
		return true
	}
	if !variablesEqual(last.Context, next.Context) {
		return true
	}
	return false
}

// variablesEqual compares two variable mappings by their canonical
// encodings. Encoding failures are treated as a change, which at worst
// causes a redundant fetch rather than a stale suspension
func variablesEqual(a map[string]any, b map[string]any) bool {
	canonicalA, err := fingerprint.CanonicalVariables(a)
	if err != nil {
		return false
	}
	canonicalB, err := fingerprint.CanonicalVariables(b)
	if err != nil {
		return false
	}
	return bytes.Equal(canonicalA, canonicalB)
}

// snapshotOptions returns a deep copy of the provided options so that later
// mutation of the caller's maps cannot corrupt change detection
func snapshotOptions(opts WatchQueryOptions) WatchQueryOptions {
	var ret WatchQueryOptions
	if err := copier.CopyWithOption(
		&ret,
		&opts,
		copier.Option{DeepCopy: true},
	); err != nil {
		// copier only fails on invalid source/destination kinds, which
		// can't happen for a struct pair. Fall back to a shallow copy
		ret = opts
	}
	return ret
}
