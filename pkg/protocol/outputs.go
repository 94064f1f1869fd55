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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Layout identifies the public values tuple committed for a provider.
// The numeric value is the layout version.
type Layout uint8

const (
	// LayoutAddressClaim is (address, bytes32)
	LayoutAddressClaim Layout = 1

	// LayoutAddressClaimKeys is (address, bytes32, bytes) with the JWKS that verified the token
	LayoutAddressClaimKeys Layout = 2
)

// Version returns the layout version byte
func (l Layout) Version() uint8 {
	return uint8(l)
}

// Valid reports whether l is a known layout
func (l Layout) Valid() bool {
	return l == LayoutAddressClaim || l == LayoutAddressClaimKeys
}

// HasKeyMaterial reports whether the layout appends key material
func (l Layout) HasKeyMaterial() bool {
	return l == LayoutAddressClaimKeys
}

func (l Layout) String() string {
	switch l {
	case LayoutAddressClaim:
		return "v1(address,bytes32)"
	case LayoutAddressClaimKeys:
		return "v2(address,bytes32,bytes)"
	default:
		return fmt.Sprintf("Layout(%d)", uint8(l))
	}
}

// ProofOutputs is the record committed by a successful run
type ProofOutputs struct {
	// MsgSender is the destination address bound by the token
	MsgSender common.Address

	// ClaimID is the SHA-256 digest of the subject claim
	ClaimID [32]byte

	// KeyMaterial is the JWKS JSON that verified the token. Only encoded for LayoutAddressClaimKeys.
	KeyMaterial []byte

	// Layout selects the encoded tuple
	Layout Layout
}

// ClaimHash returns the claim id as a common.Hash
func (o ProofOutputs) ClaimHash() common.Hash {
	return common.Hash(o.ClaimID)
}
