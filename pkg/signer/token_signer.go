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

package signer

// TokenSigner issues compact RS256 identity tokens
type TokenSigner interface {
	// Sign signs claims using default options
	Sign(claims map[string]any) (string, error)

	// SignWithOptions signs claims with custom header and timestamp options
	SignWithOptions(claims map[string]any, opts *SigningOptions) (string, error)

	// KeyID returns the kid placed in token headers
	KeyID() string

	// PublicJWKS returns the verification key as a JWKS document
	PublicJWKS() ([]byte, error)
}

// SigningOptions contains options for signing tokens
type SigningOptions struct {
	// OmitKeyID leaves the kid header out, forcing verifiers to try every key
	OmitKeyID bool

	// KeyID overrides the signer's kid for this token
	KeyID string

	// IssuedAt is the iat claim (Unix timestamp)
	// If 0, current time is used
	IssuedAt int64

	// ExpiresIn is added to IssuedAt to produce exp (seconds)
	// If 0, no exp claim is set
	ExpiresIn int64

	// NoTimestamps suppresses iat and exp entirely
	NoTimestamps bool
}
