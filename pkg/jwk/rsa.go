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
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// MinModulusBits is the smallest RSA modulus accepted for signature verification.
const MinModulusBits = 2048

var errEmptyInteger = errors.New("empty base64url integer")

// RSAPublicKey reconstructs the RSA public key from the base64url-encoded
// big-endian modulus and exponent.
func (k Key) RSAPublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, reject.Newf(reject.MalformedKeySet, "key %q: unsupported key type %q", k.Ext.Kid, k.Kty)
	}

	n, err := decodeBigInt(k.N)
	if err != nil {
		return nil, reject.Wrap(reject.MalformedKeySet, fmt.Sprintf("key %q: modulus", k.Ext.Kid), err)
	}
	e, err := decodeBigInt(k.E)
	if err != nil {
		return nil, reject.Wrap(reject.MalformedKeySet, fmt.Sprintf("key %q: exponent", k.Ext.Kid), err)
	}

	if n.BitLen() < MinModulusBits {
		return nil, reject.Newf(reject.MalformedKeySet, "key %q: modulus is %d bits, need at least %d", k.Ext.Kid, n.BitLen(), MinModulusBits)
	}
	// rsa.PublicKey.E is an int; keep it within 32 bits on every platform
	if !e.IsInt64() || e.Int64() > 1<<31-1 {
		return nil, reject.Newf(reject.MalformedKeySet, "key %q: exponent too large", k.Ext.Kid)
	}
	exp := int(e.Int64())
	if exp < 3 || exp%2 == 0 {
		return nil, reject.Newf(reject.MalformedKeySet, "key %q: invalid exponent %d", k.Ext.Kid, exp)
	}

	return &rsa.PublicKey{N: n, E: exp}, nil
}

func decodeBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, errEmptyInteger
	}
	b, err := base64.RawURLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
