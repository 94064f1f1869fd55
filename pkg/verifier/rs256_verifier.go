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

package verifier

import (
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// RS256Verifier implements SignatureVerifier for RSASSA-PKCS1-v1_5 with SHA-256
type RS256Verifier struct {
	method *jwt.SigningMethodRSA
}

// NewRS256Verifier creates a new RS256Verifier
func NewRS256Verifier() *RS256Verifier {
	return &RS256Verifier{
		method: jwt.SigningMethodRS256,
	}
}

// Verify checks signature over signingInput with pub. There is no retry.
func (v *RS256Verifier) Verify(pub *rsa.PublicKey, signingInput, signature []byte) error {
	if pub == nil {
		return reject.New(reject.SignatureInvalid, "public key cannot be nil")
	}
	if err := v.method.Verify(string(signingInput), signature, pub); err != nil {
		return reject.Wrap(reject.SignatureInvalid, "RS256 verification failed", err)
	}
	return nil
}
