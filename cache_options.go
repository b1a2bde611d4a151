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

import "time"

// FailedFetchPolicy controls what happens to a cache entry whose fetch
// promise rejects
type FailedFetchPolicy uint16

const (
	// KeepFailedFetches leaves the rejected promise cached until all
	// consumers release the reference
	KeepFailedFetches FailedFetchPolicy = iota
	// EvictFailedFetches removes the entry as soon as the fetch rejects,
	// so the next identical request issues a fresh fetch
	EvictFailedFetches
)

func (f FailedFetchPolicy) String() string {
	tmp := map[FailedFetchPolicy]string{
		KeepFailedFetches:  "KeepFailed",
		EvictFailedFetches: "EvictFailed",
	}
	ret, ok := tmp[f]
	if !ok {
		return "Unknown"
	}
	return ret
}

type CacheOption func(*SuspenseCache)

// WithAutoDisposeTimeout sets how long an unretained reference survives
// before automatic disposal
func WithAutoDisposeTimeout(timeout time.Duration) CacheOption {
	return func(c *SuspenseCache) {
		c.autoDisposeTimeout = timeout
	}
}

// WithFailedFetchPolicy sets the cache's failed-fetch policy
func WithFailedFetchPolicy(policy FailedFetchPolicy) CacheOption {
	return func(c *SuspenseCache) {
		c.failedFetchPolicy = policy
	}
}
