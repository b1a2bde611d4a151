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

package apollo_test

import (
	"testing"

	apollo "github.com/jeff-soriano/apollo-client"

	"github.com/stretchr/testify/assert"
)

func baseOptions() apollo.WatchQueryOptions {
	return apollo.WatchQueryOptions{
		Query:       "GetUser",
		Variables:   map[string]any{"id": 1},
		FetchPolicy: apollo.FetchPolicyCacheFirst,
		ErrorPolicy: apollo.ErrorPolicyNone,
	}
}

func TestOptionsDidChangePerField(t *testing.T) {
	testDefs := []struct {
		name     string
		mutate   func(*apollo.WatchQueryOptions)
		expected bool
	}{
		{
			name:     "NoChange",
			mutate:   func(o *apollo.WatchQueryOptions) {},
			expected: false,
		},
		{
			name: "Query",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.Query = "GetAccount"
			},
			expected: true,
		},
		{
			name: "FetchPolicy",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.FetchPolicy = apollo.FetchPolicyNetworkOnly
			},
			expected: true,
		},
		{
			name: "ErrorPolicy",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.ErrorPolicy = apollo.ErrorPolicyAll
			},
			expected: true,
		},
		{
			name: "RefetchWritePolicy",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.RefetchWritePolicy = apollo.RefetchWriteMerge
			},
			expected: true,
		},
		{
			name: "ReturnPartialData",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.ReturnPartialData = true
			},
			expected: true,
		},
		{
			name: "CanonizeResults",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.CanonizeResults = true
			},
			expected: true,
		},
		{
			name: "VariableValue",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.Variables = map[string]any{"id": 2}
			},
			expected: true,
		},
		{
			name: "VariableAdded",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.Variables = map[string]any{"id": 1, "limit": 10}
			},
			expected: true,
		},
		{
			name: "VariablesNilToEmpty",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.Variables = map[string]any{}
			},
			expected: true,
		},
		{
			name: "Context",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.Context = map[string]any{"header": "x"}
			},
			expected: true,
		},
		{
			name: "OnCompletedCallback",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.OnCompleted = func(any) {}
			},
			expected: false,
		},
		{
			name: "OnErrorCallback",
			mutate: func(o *apollo.WatchQueryOptions) {
				o.OnError = func(error) {}
			},
			expected: false,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			last := baseOptions()
			next := baseOptions()
			if testDef.name == "VariablesNilToEmpty" {
				last.Variables = nil
			}
			testDef.mutate(&next)
			assert.Equal(
				t,
				testDef.expected,
				apollo.OptionsDidChange(last, next),
			)
		})
	}
}

func TestOptionsDidChangeVariableOrderIrrelevant(t *testing.T) {
	last := baseOptions()
	last.Variables = map[string]any{}
	last.Variables["a"] = 1
	last.Variables["b"] = 2
	next := baseOptions()
	next.Variables = map[string]any{}
	next.Variables["b"] = 2
	next.Variables["a"] = 1
	assert.False(t, apollo.OptionsDidChange(last, next))
}

func TestPolicyStrings(t *testing.T) {
	assert.Equal(t, "CacheFirst", apollo.FetchPolicyCacheFirst.String())
	assert.Equal(t, "NetworkOnly", apollo.FetchPolicyNetworkOnly.String())
	assert.Equal(t, "NoCache", apollo.FetchPolicyNoCache.String())
	assert.Equal(
		t,
		"CacheAndNetwork",
		apollo.FetchPolicyCacheAndNetwork.String(),
	)
	assert.Equal(t, "Unknown", apollo.FetchPolicy(99).String())
	assert.Equal(t, "None", apollo.ErrorPolicyNone.String())
	assert.Equal(t, "Ignore", apollo.ErrorPolicyIgnore.String())
	assert.Equal(t, "All", apollo.ErrorPolicyAll.String())
	assert.Equal(t, "Overwrite", apollo.RefetchWriteOverwrite.String())
	assert.Equal(t, "Merge", apollo.RefetchWriteMerge.String())
	assert.Equal(t, "KeepFailed", apollo.KeepFailedFetches.String())
	assert.Equal(t, "EvictFailed", apollo.EvictFailedFetches.String())
}
