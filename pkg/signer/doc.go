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

// Package signer issues RS256 identity tokens for local development and tests.
//
// The engine only verifies tokens. This package plays the identity provider
// side so that tokens for the test provider, or for any RSA key, can be
// produced without a real OIDC login.
//
// # Issuing Test Tokens
//
// The key behind the test identity provider lives in package signertest so
// that it is never linked into a production binary:
//
//	issuer, err := signertest.Issuer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	jwt, err := issuer.Sign(map[string]any{
//	    "iss":   "https://issuer.oidcpay.test",
//	    "aud":   "oidcpay-test",
//	    "sub":   "alice",
//	    "nonce": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
//	})
//
// The test provider itself is only accepted by provider.Development.
//
// # Custom Keys
//
// Any RSA key of at least 2048 bits can sign. The matching JWKS is exported
// with PublicJWKS and can be passed to the engine as caller supplied keys:
//
//	s, err := signer.GenerateRS256Signer("my-kid")
//	jwks, err := s.PublicJWKS()
//
// # Signing Options
//
// SigningOptions control the kid header and the iat and exp claims:
//
//	jwt, err := s.SignWithOptions(claims, &signer.SigningOptions{
//	    OmitKeyID: true,
//	    ExpiresIn: 3600,
//	})
//
// Only RS256 is produced, matching the verifier's algorithm allow-list.
package signer
