// Copyright (C) 2025 SAGE-X Project
//
// This file is part of oidcpay-go.
//
// oidcpay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// oidcpay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with oidcpay-go.  If not, see <https://www.gnu.org/licenses/>.

package jwk

import (
	"encoding/json"

	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// Set is an ordered JSON Web Key Set. Key ids are expected to be unique but
// duplicates are not rejected; lookups return the first match.
type Set struct {
	Keys []Key
}

type setDocument struct {
	Keys *[]Key `json:"keys"`
}

// Parse decodes a JWKS document of the form {"keys": [...]}.
func Parse(data []byte) (*Set, error) {
	var doc setDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, reject.Wrap(reject.MalformedKeySet, "invalid JWKS document", err)
	}
	if doc.Keys == nil {
		return nil, reject.New(reject.MalformedKeySet, "JWKS document has no \"keys\" array")
	}
	return &Set{Keys: *doc.Keys}, nil
}

// MustParse is like Parse but panics on error. Intended for embedded bundles.
func MustParse(data []byte) *Set {
	set, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of keys in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Keys)
}

// FindByKeyID returns the first key whose kid matches exactly (case-sensitive).
func (s *Set) FindByKeyID(kid string) (Key, int, bool) {
	if s == nil {
		return Key{}, -1, false
	}
	for i, k := range s.Keys {
		if k.Ext.Kid == kid {
			return k, i, true
		}
	}
	return Key{}, -1, false
}

// KeyIDs lists the key ids in set order
func (s *Set) KeyIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		ids = append(ids, k.Ext.Kid)
	}
	return ids
}

// MarshalJSON writes the set as a JWKS document
func (s Set) MarshalJSON() ([]byte, error) {
	keys := s.Keys
	if keys == nil {
		keys = []Key{}
	}
	return json.Marshal(setDocument{Keys: &keys})
}
