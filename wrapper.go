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

	"github.com/google/uuid"
	"github.com/jeff-soriano/apollo-client/promise"
)

// QueryRefWrapper is the stable-identity cell a suspending consumer holds
// onto across renders. Its identity token is derived from the underlying
// QueryReference: wrapping the same reference twice yields the same token,
// so the consumer treats both wrappers as the same logical subscription.
// Replacing the wrapped promise in place never changes the token; only
// rebinding to a different reference does
type QueryRefWrapper struct {
	mutex   sync.Mutex
	token   uuid.UUID
	ref     *QueryReference
	wrapped *promise.Promise
}

// WrapForSuspension builds a wrapper around the reference's current promise
func WrapForSuspension(ref *QueryReference) *QueryRefWrapper {
	return &QueryRefWrapper{
		token:   ref.Id(),
		ref:     ref,
		wrapped: ref.Promise(),
	}
}

// IdentityToken returns the wrapper's identity token. Two wrappers share a
// token if and only if they wrap the same QueryReference
func (w *QueryRefWrapper) IdentityToken() uuid.UUID {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.token
}

// SameSubscription reports whether both wrappers represent the same logical
// subscription. Identity tokens are compared, never payloads
func (w *QueryRefWrapper) SameSubscription(other *QueryRefWrapper) bool {
	if other == nil {
		return false
	}
	return w.IdentityToken() == other.IdentityToken()
}

// Unwrap returns the wrapped reference and promise
func (w *QueryRefWrapper) Unwrap() (*QueryReference, *promise.Promise) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.ref, w.wrapped
}

// Poll returns the settlement state of the wrapped promise without
// blocking. An unsettled result is the host's cue to suspend
func (w *QueryRefWrapper) Poll() promise.Result {
	w.mutex.Lock()
	wrapped := w.wrapped
	w.mutex.Unlock()
	return wrapped.Poll()
}

// UpdateInPlace replaces the wrapped promise without changing the wrapper's
// identity. Used when the same reference produces a new promise, such as
// after FetchMore, so the consumer's cached wrapper stays valid and no
// spurious re-subscription occurs
func (w *QueryRefWrapper) UpdateInPlace(next *promise.Promise) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.wrapped = next
}

// Rebind points the wrapper at a different reference, replacing the wrapped
// promise and minting a new identity token. Rebinding to the reference the
// wrapper already wraps preserves both the token and the wrapped promise
func (w *QueryRefWrapper) Rebind(ref *QueryReference) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.ref == ref {
		return
	}
	w.ref = ref
	w.token = ref.Id()
	w.wrapped = ref.Promise()
}
