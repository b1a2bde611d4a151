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

// Package fingerprint builds the deterministic cache keys used to
// deduplicate queries. A key is derived from the query identity, a canonical
// encoding of the variables, and any caller-supplied disambiguators. Two
// variable maps with the same entries always produce the same key regardless
// of construction order.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	_cbor "github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// DigestSize is the size in bytes of a key digest
const DigestSize = blake2b.Size256

// Key identifies one logical query for deduplication purposes. It is
// comparable and usable directly as a map key
type Key struct {
	Identity string
	Digest   [DigestSize]byte
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Identity, hex.EncodeToString(k.Digest[:]))
}

// New builds a Key from a query identity, a variables mapping, and zero or
// more disambiguating scalars. Nil variables are encoded distinctly from an
// empty map, since the query engine treats "no variables" and "empty
// variables object" as different requests
func New(
	identity string,
	variables map[string]any,
	disambiguators ...any,
) (Key, error) {
	canonicalVars, err := CanonicalVariables(variables)
	if err != nil {
		return Key{}, err
	}
	hash, err := blake2b.New256(nil)
	if err != nil {
		return Key{}, err
	}
	// Length-prefix each component so that component boundaries can't shift
	tmpLen := make([]byte, 8)
	binary.BigEndian.PutUint64(tmpLen, uint64(len(identity)))
	hash.Write(tmpLen)
	hash.Write([]byte(identity))
	binary.BigEndian.PutUint64(tmpLen, uint64(len(canonicalVars)))
	hash.Write(tmpLen)
	hash.Write(canonicalVars)
	if len(disambiguators) > 0 {
		extra, err := encode(disambiguators)
		if err != nil {
			return Key{}, fmt.Errorf("encode disambiguators: %w", err)
		}
		binary.BigEndian.PutUint64(tmpLen, uint64(len(extra)))
		hash.Write(tmpLen)
		hash.Write(extra)
	}
	ret := Key{
		Identity: identity,
	}
	copy(ret.Digest[:], hash.Sum(nil))
	return ret, nil
}

// CanonicalVariables returns the canonical byte encoding for a variables
// mapping. Map keys are sorted deterministically, so mappings with identical
// entries but different insertion order encode identically. Nil maps encode
// to a fixed marker distinct from an empty map
func CanonicalVariables(variables map[string]any) ([]byte, error) {
	if variables == nil {
		// CBOR null
		return []byte{0xf6}, nil
	}
	data, err := encode(variables)
	if err != nil {
		return nil, fmt.Errorf("encode variables: %w", err)
	}
	return data, nil
}

func encode(data any) ([]byte, error) {
	opts := _cbor.EncOptions{
		// Make sure that maps have ordered keys
		Sort: _cbor.SortCoreDeterministic,
	}
	em, err := opts.EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(data)
}
