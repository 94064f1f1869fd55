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
	_ "embed"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

//go:embed abi/settlement.json
var settlementABIJSON []byte

// SettlementABI is the parsed ABI of the settlement contract that consumes the public values
var SettlementABI = mustParseABI(settlementABIJSON)

func mustParseABI(data []byte) abi.ABI {
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("settlement abi: %v", err))
	}
	return parsed
}

// EncodeClaimCall builds calldata for claim(bytes proof, bytes publicValues)
func EncodeClaimCall(proof, publicValues []byte) ([]byte, error) {
	if len(publicValues) == 0 {
		return nil, fmt.Errorf("public values cannot be empty")
	}
	if proof == nil {
		proof = []byte{}
	}
	data, err := SettlementABI.Pack("claim", proof, publicValues)
	if err != nil {
		return nil, fmt.Errorf("failed to pack claim call: %w", err)
	}
	return data, nil
}

// EncodeDepositCall builds calldata for deposit(bytes32 claimId)
func EncodeDepositCall(claimID [32]byte) ([]byte, error) {
	data, err := SettlementABI.Pack("deposit", claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to pack deposit call: %w", err)
	}
	return data, nil
}

// EncodeBalanceOfCall builds calldata for balanceOf(bytes32 claimId)
func EncodeBalanceOfCall(claimID [32]byte) ([]byte, error) {
	data, err := SettlementABI.Pack("balanceOf", claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}
	return data, nil
}

// Fixture captures one run for settlement contract tests
type Fixture struct {
	MsgSender    common.Address `json:"msgSender"`
	ClaimID      common.Hash    `json:"claimId"`
	VKey         string         `json:"vkey,omitempty"`
	PublicValues hexutil.Bytes  `json:"publicValues"`
	Proof        hexutil.Bytes  `json:"proof"`
}

// NewFixture decodes publicValues with layout and builds a fixture around them.
// proof may be empty when no proving backend produced one.
func NewFixture(publicValues []byte, layout Layout, proof []byte) (*Fixture, error) {
	out, err := DecodeOutputs(publicValues, layout)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		proof = []byte{}
	}
	return &Fixture{
		MsgSender:    out.MsgSender,
		ClaimID:      out.ClaimHash(),
		PublicValues: append(hexutil.Bytes(nil), publicValues...),
		Proof:        append(hexutil.Bytes(nil), proof...),
	}, nil
}
