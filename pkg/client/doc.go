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

// Package client provides an HTTP client for the oidcpay server.
//
// # Basic Usage
//
//	c := client.New("http://localhost:8080", nil)
//
//	resp, err := c.Execute(ctx, protocol.ProofInputs{
//	    IdentityProvider: uint256.NewInt(0),
//	    JWT:              idToken,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.MsgSender.Hex(), resp.ClaimID.Hex())
//
// # Header Authentication
//
// Auth sends the token in the X-Auth-Token header and always runs the
// Google provider with keys fetched by the server:
//
//	resp, err := c.Auth(ctx, idToken)
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError. An APIError unwraps to the
// rejection kind reported by the server, so callers can match with
// errors.Is:
//
//	_, err := c.Execute(ctx, in)
//	if errors.Is(err, reject.AudienceMismatch) {
//	    // token was issued to another client
//	}
//
// # Thread Safety
//
// Client is safe for concurrent use by multiple goroutines.
package client
