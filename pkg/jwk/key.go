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
	"fmt"
)

// Base holds the members shared by every RSA signing key in a provider JWKS.
type Base struct {
	// Kty is the key type, "RSA" for every key this engine can use
	Kty string

	// Use is the intended key use, "sig" for signing keys
	Use string

	// Alg is the algorithm the key is published for (e.g., "RS256")
	Alg string

	// N is the base64url-encoded big-endian RSA modulus
	N string

	// E is the base64url-encoded big-endian RSA public exponent
	E string
}

// Extension holds provider-specific members attached to a Base record.
type Extension struct {
	// Kid is the key id referenced by the "kid" header of a token
	Kid string

	// Extra keeps any member neither Base nor Extension recognises
	Extra map[string]json.RawMessage
}

// Key is a JSON Web Key: a Base record composed with its Extension.
type Key struct {
	Base
	Ext Extension
}

// KeyID returns the key id carried by the extension record
func (k Key) KeyID() string {
	return k.Ext.Kid
}

// Viable reports whether the key may verify an RS256 token signature.
func (k Key) Viable() bool {
	if k.Kty != "RSA" {
		return false
	}
	if k.Alg != "" && k.Alg != "RS256" {
		return false
	}
	return k.Use == "" || k.Use == "sig"
}

var baseMembers = map[string]func(k *Key) *string{
	"kty": func(k *Key) *string { return &k.Kty },
	"use": func(k *Key) *string { return &k.Use },
	"alg": func(k *Key) *string { return &k.Alg },
	"n":   func(k *Key) *string { return &k.N },
	"e":   func(k *Key) *string { return &k.E },
	"kid": func(k *Key) *string { return &k.Ext.Kid },
}

// UnmarshalJSON splits a JWK object into its base and extension records.
func (k *Key) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("key is not a JSON object: %w", err)
	}
	if members == nil {
		return fmt.Errorf("key is null")
	}

	var decoded Key
	for name, raw := range members {
		field, known := baseMembers[name]
		if !known {
			if decoded.Ext.Extra == nil {
				decoded.Ext.Extra = make(map[string]json.RawMessage)
			}
			decoded.Ext.Extra[name] = raw
			continue
		}
		if err := json.Unmarshal(raw, field(&decoded)); err != nil {
			return fmt.Errorf("member %q must be a string: %w", name, err)
		}
	}

	*k = decoded
	return nil
}

// MarshalJSON writes the base and extension members as one flat JWK object.
// Member order is sorted, so equal keys always marshal to equal bytes.
func (k Key) MarshalJSON() ([]byte, error) {
	members := make(map[string]any, len(baseMembers)+len(k.Ext.Extra))
	for name, raw := range k.Ext.Extra {
		members[name] = raw
	}
	for name, field := range baseMembers {
		if v := *field(&k); v != "" {
			members[name] = v
		}
	}
	return json.Marshal(members)
}
