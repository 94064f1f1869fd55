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

package protocol

import (
	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// ProofInputs is the engine input record.
// Treat values as immutable; use Clone before modifying a shared value.
type ProofInputs struct {
	// IdentityProvider selects the provider variant
	IdentityProvider *uint256.Int

	// JWT is the compact serialized identity token
	JWT string

	// Cert is the raw JWKS JSON document. Empty when the provider embeds its keys.
	Cert []byte
}

// Clone returns a deep copy of the inputs
func (in ProofInputs) Clone() ProofInputs {
	out := ProofInputs{JWT: in.JWT}
	if in.IdentityProvider != nil {
		out.IdentityProvider = new(uint256.Int).Set(in.IdentityProvider)
	}
	if in.Cert != nil {
		out.Cert = append([]byte(nil), in.Cert...)
	}
	return out
}

// HasCert reports whether caller supplied key material is present
func (in ProofInputs) HasCert() bool {
	return len(in.Cert) > 0
}

// Validate performs basic structural validation on the inputs
func (in ProofInputs) Validate() error {
	if in.IdentityProvider == nil {
		return reject.New(reject.MalformedInput, "identity provider is required")
	}
	return nil
}

// ProofInputsBuilder helps construct ProofInputs with a fluent API
type ProofInputsBuilder struct {
	inputs ProofInputs
}

// NewProofInputsBuilder creates a new ProofInputsBuilder
func NewProofInputsBuilder(provider uint64, jwt string) *ProofInputsBuilder {
	return &ProofInputsBuilder{
		inputs: ProofInputs{
			IdentityProvider: uint256.NewInt(provider),
			JWT:              jwt,
		},
	}
}

// WithProvider replaces the provider selector with a full 256-bit value
func (b *ProofInputsBuilder) WithProvider(selector *uint256.Int) *ProofInputsBuilder {
	b.inputs.IdentityProvider = selector
	return b
}

// WithCert attaches a JWKS document
func (b *ProofInputsBuilder) WithCert(cert []byte) *ProofInputsBuilder {
	b.inputs.Cert = cert
	return b
}

// Build returns a copy of the constructed inputs
func (b *ProofInputsBuilder) Build() ProofInputs {
	return b.inputs.Clone()
}
