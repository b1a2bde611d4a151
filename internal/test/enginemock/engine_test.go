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

package enginemock

import (
	"testing"

	apollo "github.com/jeff-soriano/apollo-client"
	"github.com/jeff-soriano/apollo-client/promise"

	"github.com/stretchr/testify/require"
)

func TestEngineRecordsCalls(t *testing.T) {
	engine := New()
	opts := apollo.WatchQueryOptions{Query: "GetUser"}

	issued := engine.Issue(opts)
	require.Equal(t, promise.StatusPending, issued.Poll().Status)
	engine.FetchMore(opts, "previous")
	engine.Refetch(opts)

	calls := engine.Calls()
	require.Len(t, calls, 3)
	require.Equal(t, CallIssue, calls[0].Kind)
	require.Same(t, issued, calls[0].Promise)
	require.Equal(t, CallFetchMore, calls[1].Kind)
	require.Equal(t, "previous", calls[1].Previous)
	require.Equal(t, CallRefetch, calls[2].Kind)

	require.Equal(t, 1, engine.CallCount(CallIssue))
	require.Equal(t, CallRefetch, engine.LastCall().Kind)
}

func TestEngineHooks(t *testing.T) {
	engine := New()
	engine.IssueHook = func(apollo.WatchQueryOptions) *promise.Promise {
		return promise.Resolved("canned")
	}
	p := engine.Issue(apollo.WatchQueryOptions{Query: "GetUser"})
	require.Equal(t, "canned", p.Poll().Value)
}

func TestEngineLastCallPanicsWhenEmpty(t *testing.T) {
	engine := New()
	require.Panics(t, func() { engine.LastCall() })
}
