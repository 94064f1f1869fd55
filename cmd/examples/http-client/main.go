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
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/client"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/signer/signertest"
)

// This example calls a running "oidcpay serve" instance started with
// OIDCPAY_SERVER_ALLOW_TEST_PROVIDER=true
func main() {
	serverURL := flag.String("server", "http://localhost:8080", "oidcpay server URL")
	flag.Parse()

	fmt.Println("oidcpay - HTTP Client Example")
	fmt.Println("=============================")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(*serverURL, &http.Client{Timeout: 10 * time.Second})

	fmt.Println("\n1. Checking server health...")
	health, err := c.Health(ctx)
	if err != nil {
		log.Fatalf("Server unavailable: %v", err)
	}
	fmt.Printf("   Server version: %s\n", health.Version)

	fmt.Println("\n2. Issuing a test provider token...")
	issuer, err := signertest.Issuer()
	if err != nil {
		log.Fatalf("Failed to load test issuer: %v", err)
	}
	claims := map[string]any{
		"iss":   provider.TestIssuer,
		"aud":   provider.TestAudience,
		"sub":   "bob@example.com",
		"nonce": "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	}
	token, err := issuer.Sign(claims)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println("\n3. Executing...")
	resp, err := c.Execute(ctx, protocol.ProofInputs{
		IdentityProvider: uint256.NewInt(uint64(provider.Test)),
		JWT:              token,
	})
	if err != nil {
		log.Fatalf("Execution failed: %v", err)
	}
	fmt.Printf("   msgSender:    %s\n", resp.MsgSender.Hex())
	fmt.Printf("   claimId:      %s\n", resp.ClaimID.Hex())
	fmt.Printf("   publicValues: %s\n", resp.PublicValues)

	fmt.Println("\n4. Sending a token for another audience...")
	claims["aud"] = "another-app"
	token, err = issuer.Sign(claims)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	_, err = c.Execute(ctx, protocol.ProofInputs{
		IdentityProvider: uint256.NewInt(uint64(provider.Test)),
		JWT:              token,
	})
	if errors.Is(err, reject.AudienceMismatch) {
		fmt.Println("   Rejected with AudienceMismatch as expected")
	} else {
		log.Fatalf("Unexpected result: %v", err)
	}
}
