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

package test

import (
	"testing"
	"time"

	"github.com/jeff-soriano/apollo-client/promise"
)

// AwaitSettlement is a helper function for tests that blocks until the
// provided promise settles and returns its result. It fails the test if the
// promise is still pending after the timeout
func AwaitSettlement(
	t *testing.T,
	p *promise.Promise,
	timeout time.Duration,
) promise.Result {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(timeout):
		t.Fatalf("timed out after %s waiting for promise settlement", timeout)
	}
	return p.Poll()
}
