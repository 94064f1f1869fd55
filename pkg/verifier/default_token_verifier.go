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
	"fmt"

	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
)

// DefaultTokenVerifier composes the algorithm allow-list, a KeySelector and a SignatureVerifier.
type DefaultTokenVerifier struct {
	selector          KeySelector
	signatureVerifier SignatureVerifier
}

func NewDefaultTokenVerifier(selector KeySelector, signatureVerifier SignatureVerifier) *DefaultTokenVerifier {
	return &DefaultTokenVerifier{
		selector:          selector,
		signatureVerifier: signatureVerifier,
	}
}

// Verify authenticates the token. The algorithm is checked before any key is touched.
func (v *DefaultTokenVerifier) Verify(decoded *token.Decoded, set *jwk.Set) (Selection, error) {
	if decoded == nil {
		return Selection{}, reject.New(reject.MalformedToken, "decoded token cannot be nil")
	}
	if err := CheckAlgorithm(decoded.Header.Alg); err != nil {
		return Selection{}, err
	}
	if v.selector == nil || v.signatureVerifier == nil {
		return Selection{}, fmt.Errorf("token verifier not configured")
	}

	selection, err := v.selector.SelectKey(decoded.Header, set, func(pub *rsa.PublicKey) error {
		return v.signatureVerifier.Verify(pub, decoded.SigningInput, decoded.Signature)
	})
	if err != nil {
		return Selection{}, fmt.Errorf("select key: %w", err)
	}
	return selection, nil
}
