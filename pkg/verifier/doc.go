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

// Package verifier selects the signing key for a token and verifies its signature.
//
// # Algorithm Allow-List
//
// Only RS256 (RSASSA-PKCS1-v1_5 with SHA-256) is accepted. Any other declared
// algorithm, including "none", symmetric HS256 and other RSA variants, is
// rejected before a key is even selected:
//
//	if err := verifier.CheckAlgorithm(decoded.Header.Alg); err != nil {
//	    // reject.UnsupportedAlgorithm
//	}
//
// # Key Selection
//
// The KeySelector matches the token's "kid" header against a JWKS:
//
//	selector := verifier.NewDefaultKeySelector(verifier.FallbackMissingKeyID)
//	sigVerifier := verifier.NewRS256Verifier()
//	tokenVerifier := verifier.NewDefaultTokenVerifier(selector, sigVerifier)
//
//	selection, err := tokenVerifier.Verify(decoded, keySet)
//
// When the header carries a kid, the first key with that exact kid is used and
// a failed verification is terminal (reject.SignatureInvalid). Whether the
// selector may instead try every key in set order is an explicit
// FallbackPolicy:
//
//   - FallbackNone → a kid is required
//   - FallbackMissingKeyID → try all keys only when the header has no kid
//   - FallbackAlways → also try all keys when the kid is unknown
//
// A fallback that finds no key verifying the token is reported as
// reject.KeyNotFound, so callers can tell "wrong keys supplied" apart from
// "forged token".
//
// # Error Handling
//
//   - reject.UnsupportedAlgorithm: header alg not on the allow-list
//   - reject.KeyNotFound: empty set, unknown kid, no viable key, fallback exhausted
//   - reject.MalformedKeySet: selected key has an unusable modulus or exponent
//   - reject.SignatureInvalid: the selected key did not verify the signature
package verifier
