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

package main

import (
	"fmt"
	"log"

	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/program"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sage-x-project/oidcpay-go/pkg/signer/signertest"
)

// This example issues a test provider token and runs the claim engine on it in-process
func main() {
	fmt.Println("=== Local Claim Example ===")

	// Step 1: Issue a token with the development key
	issuer, err := signertest.Issuer()
	if err != nil {
		log.Fatalf("Failed to load test issuer: %v", err)
	}
	token, err := issuer.Sign(map[string]any{
		"iss":   provider.TestIssuer,
		"aud":   provider.TestAudience,
		"sub":   "alice",
		"nonce": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	})
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Printf("Step 1: Token issued (kid %s)\n\n", issuer.KeyID())

	// Step 2: Build the inputs
	in := protocol.NewProofInputsBuilder(uint64(provider.Test), token).Build()
	encoded, err := protocol.EncodeInputs(in)
	if err != nil {
		log.Fatalf("Failed to encode inputs: %v", err)
	}
	fmt.Printf("Step 2: Inputs encoded (%d bytes)\n\n", len(encoded))

	// Step 3: Run the engine on the encoded inputs
	// The test provider is only enabled in the development registry
	engine := program.New(program.WithRegistry(provider.Development))
	publicValues, err := engine.Run(encoded)
	if err != nil {
		log.Fatalf("Execution rejected: %v", err)
	}
	fmt.Printf("Step 3: Public values committed\n  0x%x\n\n", publicValues)

	// Step 4: Decode what a settlement contract would see
	out, err := protocol.DecodeOutputs(publicValues, protocol.LayoutAddressClaim)
	if err != nil {
		log.Fatalf("Failed to decode outputs: %v", err)
	}
	fmt.Println("Step 4: Decoded outputs")
	fmt.Printf("  msgSender: %s\n", out.MsgSender.Hex())
	fmt.Printf("  claimId:   %s\n\n", out.ClaimHash().Hex())

	// Step 5: Calldata for depositing to the claim id
	deposit, err := protocol.EncodeDepositCall(out.ClaimID)
	if err != nil {
		log.Fatalf("Failed to encode deposit: %v", err)
	}
	fmt.Printf("Step 5: deposit calldata 0x%x\n", deposit)

	// A different selector never reaches the test keys
	_, err = program.New().Execute(protocol.ProofInputs{IdentityProvider: uint256.NewInt(7), JWT: token})
	fmt.Printf("\nSelector 7 is rejected: %v\n", err)
}
