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

// Package signertest provides the development key of the test identity
// provider. Import it from tests and local tooling only.
package signertest

import (
	_ "embed"
	"sync"

	"github.com/sage-x-project/oidcpay-go/pkg/signer"
)

// KeyID is the kid of the development key
const KeyID = "oidcpay-test-1"

// keyPEM matches the embedded key set of the test identity provider.
// It is public, so anything it signs is forgeable.
//
//go:embed testdata/oidcpay-test.pem
var keyPEM []byte

var (
	issuerOnce sync.Once
	issuer     *signer.RS256Signer
	issuerErr  error
)

// Issuer returns the shared signer for the test identity provider
func Issuer() (*signer.RS256Signer, error) {
	issuerOnce.Do(func() {
		issuer, issuerErr = signer.ParseRS256Signer(KeyID, keyPEM)
	})
	return issuer, issuerErr
}

// KeyPEM returns a copy of the development key in PEM form
func KeyPEM() []byte {
	return append([]byte(nil), keyPEM...)
}
