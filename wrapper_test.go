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
	"github.com/jeff-soriano/apollo-client/internal/test/enginemock"
	"github.com/jeff-soriano/apollo-client/promise"

	"github.com/stretchr/testify/require"
)

func TestWrapperIdentityStableForSameReference(t *testing.T) {
	engine := enginemock.New()
	opts := apollo.WatchQueryOptions{Query: "GetUser"}
	cache, ref := newTestReference(t, engine, opts)
	defer cache.Close()

	wrapperA := apollo.WrapForSuspension(ref)
	wrapperB := apollo.WrapForSuspension(ref)
	require.True(t, wrapperA.SameSubscription(wrapperB))
	require.Equal(t, wrapperA.IdentityToken(), wrapperB.IdentityToken())
	require.Equal(t, ref.Id(), wrapperA.IdentityToken())
}

func TestWrapperIdentityChangesAcrossReferences(t *testing.T) {
	engine := enginemock.New()
	cache := apollo.NewSuspenseCache(engine)
	defer cache.Close()

	refA, err := cache.GetOrCreateReference(
		mustKey(t, "GetUser", map[string]any{"id": 1}),
		apollo.WatchQueryOptions{
			Query:     "GetUser",
			Variables: map[string]any{"id": 1},
		},
	)
	require.NoError(t, err)
	refB, err := cache.GetOrCreateReference(
		mustKey(t, "GetUser", map[string]any{"id": 2}),
		apollo.WatchQueryOptions{
			Query:     "GetUser",
			Variables: map[string]any{"id": 2},
		},
	)
	require.NoError(t, err)

	wrapperA := apollo.WrapForSuspension(refA)
	wrapperB := apollo.WrapForSuspension(refB)
	require.False(t, wrapperA.SameSubscription(wrapperB))
	require.False(t, wrapperA.SameSubscription(nil))
}

func TestWrapperUpdateInPlace(t *testing.T) {
	engine := enginemock.New()
	opts := apollo.WatchQueryOptions{Query: "GetUser"}
	cache, ref := newTestReference(t, engine, opts)
	defer cache.Close()

	wrapper := apollo.WrapForSuspension(ref)
	tokenBefore := wrapper.IdentityToken()
	engine.LastCall().Promise.Resolve("first")
	require.Equal(t, promise.StatusFulfilled, wrapper.Poll().Status)

	// FetchMore replaces the promise; updating the wrapper in place
	// restarts the settlement cycle without changing its identity
	next := ref.FetchMore(apollo.FetchMoreOptions{})
	wrapper.UpdateInPlace(next)

	require.Equal(t, tokenBefore, wrapper.IdentityToken())
	require.Equal(t, promise.StatusPending, wrapper.Poll().Status)
	_, wrapped := wrapper.Unwrap()
	require.Same(t, next, wrapped)

	engine.LastCall().Promise.Resolve("second")
	result := wrapper.Poll()
	require.Equal(t, promise.StatusFulfilled, result.Status)
	require.Equal(t, "second", result.Value)
}

func TestWrapperRebind(t *testing.T) {
	engine := enginemock.New()
	cache := apollo.NewSuspenseCache(engine)
	defer cache.Close()

	refA, err := cache.GetOrCreateReference(
		mustKey(t, "GetUser", map[string]any{"id": 1}),
		apollo.WatchQueryOptions{
			Query:     "GetUser",
			Variables: map[string]any{"id": 1},
		},
	)
	require.NoError(t, err)
	refB, err := cache.GetOrCreateReference(
		mustKey(t, "GetUser", map[string]any{"id": 2}),
		apollo.WatchQueryOptions{
			Query:     "GetUser",
			Variables: map[string]any{"id": 2},
		},
	)
	require.NoError(t, err)

	wrapper := apollo.WrapForSuspension(refA)
	tokenA := wrapper.IdentityToken()

	// Rebinding to the same reference is a no-op
	wrapper.Rebind(refA)
	require.Equal(t, tokenA, wrapper.IdentityToken())

	// Rebinding to a different reference mints a new identity, so the
	// consumer reliably detects a different logical subscription
	wrapper.Rebind(refB)
	require.NotEqual(t, tokenA, wrapper.IdentityToken())
	require.Equal(t, refB.Id(), wrapper.IdentityToken())
	boundRef, wrapped := wrapper.Unwrap()
	require.Same(t, refB, boundRef)
	require.Same(t, refB.Promise(), wrapped)
}

// TestWrapperIdentityAcrossOptionChange models the consumer flow when fetch
// options evolve: options that change the fingerprint produce a different
// reference and therefore a different wrapper identity, while an in-place
// re-fetch on the same reference preserves it
func TestWrapperIdentityAcrossOptionChange(t *testing.T) {
	engine := enginemock.New()
	cache := apollo.NewSuspenseCache(engine)
	defer cache.Close()

	optsA := apollo.WatchQueryOptions{
		Query:     "GetUser",
		Variables: map[string]any{"id": 1},
	}
	refA, err := cache.GetOrCreateReference(
		mustKey(t, optsA.Query, optsA.Variables),
		optsA,
	)
	require.NoError(t, err)
	wrapper := apollo.WrapForSuspension(refA)
	tokenBefore := wrapper.IdentityToken()

	// Same reference, new promise via in-place re-fetch: same identity
	next := refA.ApplyOptions(apollo.WatchQueryOptions{
		Query:       "GetUser",
		Variables:   map[string]any{"id": 1},
		FetchPolicy: apollo.FetchPolicyNetworkOnly,
	})
	wrapper.UpdateInPlace(next)
	require.Equal(t, tokenBefore, wrapper.IdentityToken())

	// New variables change the fingerprint: different reference, new
	// wrapper identity
	optsB := apollo.WatchQueryOptions{
		Query:     "GetUser",
		Variables: map[string]any{"id": 2},
	}
	refB, err := cache.GetOrCreateReference(
		mustKey(t, optsB.Query, optsB.Variables),
		optsB,
	)
	require.NoError(t, err)
	wrapper.Rebind(refB)
	require.NotEqual(t, tokenBefore, wrapper.IdentityToken())
}
