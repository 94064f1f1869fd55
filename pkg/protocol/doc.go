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

// Package protocol defines the wire contracts of the claim engine: the proof
// inputs read by the engine and the public values it commits.
//
// # Proof Inputs
//
// ProofInputs selects an identity provider, carries the compact JWT and,
// for providers whose certificates rotate, the JWKS document the token was
// signed against:
//
//	in := protocol.NewProofInputsBuilder(0, jwt).
//	    WithCert(certs).
//	    Build()
//
// Inputs are exchanged as ABI parameters (uint256, string, bytes):
//
//	raw, err := protocol.EncodeInputs(in)
//	in, err = protocol.DecodeInputs(raw)
//
// The HTTP and CLI surfaces also accept a JSON form:
//
//	{"identity_provider": "0x1", "jwt": "eyJ...", "cert": "0x7b22..."}
//
// # Public Values
//
// A successful run commits ProofOutputs, encoded as ABI parameters so a
// settlement contract can read them with abi.decode:
//
//	(address msgSender, bytes32 claimId)          // LayoutAddressClaim
//	(address msgSender, bytes32 claimId, bytes)   // LayoutAddressClaimKeys
//
// The layout is fixed per identity provider. Decoding requires the layout
// and rejects non-canonical encodings.
//
// # Settlement Contract
//
// EncodeClaimCall, EncodeDepositCall and EncodeBalanceOfCall build calldata
// for the settlement contract, and Fixture captures a run for contract tests.
package protocol
