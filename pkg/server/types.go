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

package server

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
)

// ExecuteRequest is the body of POST /execute. It is the JSON form of
// protocol.ProofInputs.
type ExecuteRequest = protocol.ProofInputs

// ExecuteResponse carries the committed public values
type ExecuteResponse struct {
	PublicValues  hexutil.Bytes  `json:"publicValues"`
	MsgSender     common.Address `json:"msgSender"`
	ClaimID       common.Hash    `json:"claimId"`
	LayoutVersion uint8          `json:"layoutVersion"`

	// Calldata is claim(proof, publicValues) with an empty proof
	Calldata hexutil.Bytes `json:"calldata"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// MarshalJSON renders msgSender with its EIP-55 checksum
func (r ExecuteResponse) MarshalJSON() ([]byte, error) {
	type plain ExecuteResponse
	return json.Marshal(struct {
		plain
		MsgSender string `json:"msgSender"`
	}{
		plain:     plain(r),
		MsgSender: r.MsgSender.Hex(),
	})
}
