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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementABI_Methods(t *testing.T) {
	for _, name := range []string{"claim", "deposit", "balanceOf", "bonsaiPayVKey", "verifier"} {
		_, ok := SettlementABI.Methods[name]
		assert.True(t, ok, "method %s", name)
	}
	assert.Contains(t, SettlementABI.Events, "Claimed")
	assert.Contains(t, SettlementABI.Events, "Deposited")
}

func TestEncodeClaimCall(t *testing.T) {
	publicValues := mustHex(t, goldenAddressClaim)
	proof := []byte{0xde, 0xad}

	data, err := EncodeClaimCall(proof, publicValues)
	require.NoError(t, err)

	method := SettlementABI.Methods["claim"]
	assert.Equal(t, method.ID, data[:4])

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, proof, args[0])
	assert.Equal(t, publicValues, args[1])
}

func TestEncodeClaimCall_EmptyPublicValues(t *testing.T) {
	_, err := EncodeClaimCall(nil, nil)
	assert.Error(t, err)
}

func TestEncodeDepositAndBalanceOfCalls(t *testing.T) {
	claimID := testOutputs(LayoutAddressClaim).ClaimID

	deposit, err := EncodeDepositCall(claimID)
	require.NoError(t, err)
	assert.Len(t, deposit, 4+32)
	assert.Equal(t, SettlementABI.Methods["deposit"].ID, deposit[:4])
	assert.Equal(t, claimID[:], deposit[4:])

	balance, err := EncodeBalanceOfCall(claimID)
	require.NoError(t, err)
	assert.Equal(t, SettlementABI.Methods["balanceOf"].ID, balance[:4])
	assert.NotEqual(t, deposit[:4], balance[:4])
}

func TestNewFixture(t *testing.T) {
	publicValues := mustHex(t, goldenAddressClaim)

	fixture, err := NewFixture(publicValues, LayoutAddressClaim, nil)
	require.NoError(t, err)
	assert.Equal(t, testAddress, fixture.MsgSender.Hex())

	data, err := json.Marshal(fixture)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "0x"+goldenAddressClaim, decoded["publicValues"])
	assert.Equal(t, "0xff8d9819fc0e12bf0d24892e45987e249a28dce836a85cad60e28eaaa8c6d976", decoded["claimId"])
	assert.Equal(t, "0x", decoded["proof"])
	assert.NotContains(t, decoded, "vkey")

	_, err = NewFixture(publicValues[:10], LayoutAddressClaim, nil)
	assert.Error(t, err)
}
