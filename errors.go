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

import "errors"

// ErrCacheClosed is returned when a reference is requested from a cache
// that has been closed
var ErrCacheClosed = errors.New("suspense cache is closed")

// ErrReferenceDisposed is returned when an operation requires a live
// reference but the reference has already been disposed
var ErrReferenceDisposed = errors.New("query reference is disposed")
