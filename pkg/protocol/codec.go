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
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

var (
	uint256Type = mustNewType("uint256")
	stringType  = mustNewType("string")
	bytesType   = mustNewType("bytes")
	addressType = mustNewType("address")
	bytes32Type = mustNewType("bytes32")

	inputArguments = abi.Arguments{
		{Name: "identity_provider", Type: uint256Type},
		{Name: "jwt", Type: stringType},
		{Name: "cert", Type: bytesType},
	}

	addressClaimArguments = abi.Arguments{
		{Name: "msgSender", Type: addressType},
		{Name: "claimId", Type: bytes32Type},
	}

	addressClaimKeysArguments = abi.Arguments{
		{Name: "msgSender", Type: addressType},
		{Name: "claimId", Type: bytes32Type},
		{Name: "jwk", Type: bytesType},
	}
)

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("abi type %s: %v", t, err))
	}
	return typ
}

func (l Layout) arguments() (abi.Arguments, error) {
	switch l {
	case LayoutAddressClaim:
		return addressClaimArguments, nil
	case LayoutAddressClaimKeys:
		return addressClaimKeysArguments, nil
	default:
		return nil, fmt.Errorf("unknown output layout %d", uint8(l))
	}
}

// EncodeInputs encodes in as ABI parameters (uint256, string, bytes)
func EncodeInputs(in ProofInputs) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	cert := in.Cert
	if cert == nil {
		cert = []byte{}
	}
	data, err := inputArguments.Pack(in.IdentityProvider.ToBig(), in.JWT, cert)
	if err != nil {
		return nil, fmt.Errorf("failed to pack inputs: %w", err)
	}
	return data, nil
}

// DecodeInputs decodes ABI encoded inputs. Any decoding failure or
// non-canonical encoding is reject.MalformedInput.
func DecodeInputs(data []byte) (ProofInputs, error) {
	values, err := inputArguments.Unpack(data)
	if err != nil {
		return ProofInputs{}, reject.Wrap(reject.MalformedInput, "failed to unpack inputs", err)
	}
	if len(values) != len(inputArguments) {
		return ProofInputs{}, reject.Newf(reject.MalformedInput, "expected %d input values, got %d", len(inputArguments), len(values))
	}

	selector, ok := values[0].(*big.Int)
	if !ok {
		return ProofInputs{}, reject.Newf(reject.MalformedInput, "identity provider has type %T", values[0])
	}
	provider, overflow := uint256.FromBig(selector)
	if overflow {
		return ProofInputs{}, reject.New(reject.MalformedInput, "identity provider exceeds 256 bits")
	}
	jwt, ok := values[1].(string)
	if !ok {
		return ProofInputs{}, reject.Newf(reject.MalformedInput, "jwt has type %T", values[1])
	}
	cert, ok := values[2].([]byte)
	if !ok {
		return ProofInputs{}, reject.Newf(reject.MalformedInput, "cert has type %T", values[2])
	}

	in := ProofInputs{
		IdentityProvider: provider,
		JWT:              jwt,
	}
	if len(cert) > 0 {
		in.Cert = cert
	}

	if err := checkCanonical(data, func() ([]byte, error) { return EncodeInputs(in) }); err != nil {
		return ProofInputs{}, reject.Wrap(reject.MalformedInput, "inputs", err)
	}
	return in, nil
}

// EncodeOutputs encodes out using its layout
func EncodeOutputs(out ProofOutputs) ([]byte, error) {
	args, err := out.Layout.arguments()
	if err != nil {
		return nil, err
	}

	values := []interface{}{out.MsgSender, out.ClaimID}
	if out.Layout.HasKeyMaterial() {
		keys := out.KeyMaterial
		if keys == nil {
			keys = []byte{}
		}
		values = append(values, keys)
	} else if len(out.KeyMaterial) > 0 {
		return nil, fmt.Errorf("layout %s cannot carry key material", out.Layout)
	}

	data, err := args.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack outputs: %w", err)
	}
	return data, nil
}

// DecodeOutputs decodes public values committed with the given layout
func DecodeOutputs(data []byte, layout Layout) (ProofOutputs, error) {
	args, err := layout.arguments()
	if err != nil {
		return ProofOutputs{}, err
	}

	values, err := args.Unpack(data)
	if err != nil {
		return ProofOutputs{}, fmt.Errorf("failed to unpack outputs: %w", err)
	}
	if len(values) != len(args) {
		return ProofOutputs{}, fmt.Errorf("expected %d output values, got %d", len(args), len(values))
	}

	sender, ok := values[0].(common.Address)
	if !ok {
		return ProofOutputs{}, fmt.Errorf("msgSender has type %T", values[0])
	}
	claimID, ok := values[1].([32]byte)
	if !ok {
		return ProofOutputs{}, fmt.Errorf("claimId has type %T", values[1])
	}

	out := ProofOutputs{
		MsgSender: sender,
		ClaimID:   claimID,
		Layout:    layout,
	}
	if layout.HasKeyMaterial() {
		keys, ok := values[2].([]byte)
		if !ok {
			return ProofOutputs{}, fmt.Errorf("jwk has type %T", values[2])
		}
		out.KeyMaterial = keys
	}

	if err := checkCanonical(data, func() ([]byte, error) { return EncodeOutputs(out) }); err != nil {
		return ProofOutputs{}, fmt.Errorf("outputs: %w", err)
	}
	return out, nil
}

// checkCanonical re-encodes the decoded value and requires an exact match,
// which rules out trailing bytes, dirty padding and unusual offsets
func checkCanonical(data []byte, encode func() ([]byte, error)) error {
	canonical, err := encode()
	if err != nil {
		return err
	}
	if !bytes.Equal(data, canonical) {
		return fmt.Errorf("non-canonical encoding")
	}
	return nil
}
