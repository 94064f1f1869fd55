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

// Package output turns a validated claim set into the committed public values.
package output

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sage-x-project/oidcpay-go/pkg/claims"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// ParseAddress parses a 0x prefixed 20 byte hex address whose letters carry
// the EIP-55 checksum casing. Unchecksummed all-lowercase or all-uppercase
// forms are rejected; an address made only of digits has no letters to case.
func ParseAddress(s string) (common.Address, error) {
	if len(s) != 2+2*common.AddressLength || !strings.HasPrefix(s, "0x") {
		return common.Address{}, reject.Newf(reject.MalformedAddressClaim, "address %q is not 0x followed by 40 hex digits", s)
	}
	for _, c := range s[2:] {
		if !isHexDigit(c) {
			return common.Address{}, reject.Newf(reject.MalformedAddressClaim, "address %q contains non-hex character %q", s, c)
		}
	}

	addr := common.HexToAddress(s)
	if addr.Hex() != s {
		return common.Address{}, reject.Newf(reject.MalformedAddressClaim, "address %q is not checksummed, expected %s", s, addr.Hex())
	}
	return addr, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ClaimID is the SHA-256 digest of the raw UTF-8 subject bytes
func ClaimID(subject string) [32]byte {
	return sha256.Sum256([]byte(subject))
}

// Build produces the outputs for a validated result. keyMaterial is
// committed only when layout carries it.
func Build(result claims.Result, layout protocol.Layout, keyMaterial []byte) (protocol.ProofOutputs, error) {
	if !layout.Valid() {
		return protocol.ProofOutputs{}, fmt.Errorf("unknown output layout %s", layout)
	}

	sender, err := ParseAddress(result.SignerAddress)
	if err != nil {
		return protocol.ProofOutputs{}, err
	}

	out := protocol.ProofOutputs{
		MsgSender: sender,
		ClaimID:   ClaimID(result.Subject),
		Layout:    layout,
	}
	if layout.HasKeyMaterial() {
		out.KeyMaterial = append([]byte{}, keyMaterial...)
	}
	return out, nil
}

// Commit builds and encodes the outputs in one step
func Commit(result claims.Result, layout protocol.Layout, keyMaterial []byte) ([]byte, error) {
	out, err := Build(result, layout, keyMaterial)
	if err != nil {
		return nil, err
	}
	return protocol.EncodeOutputs(out)
}
