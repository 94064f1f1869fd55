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

// Package server exposes the claim engine over HTTP.
//
// # Endpoints
//
//	POST /execute   body: {"identity_provider": "0x0", "jwt": "...", "cert": "0x..."}
//	GET  /auth      header: X-Auth-Token: <jwt>  (or Authorization: Bearer <jwt>)
//	GET  /healthz
//
// /execute accepts the JSON form of protocol.ProofInputs. When the selected
// provider needs caller supplied keys and cert is omitted, the server fetches
// the provider's current certificates. /auth always uses the Google provider.
//
// A successful run answers:
//
//	{
//	  "publicValues": "0x...",
//	  "msgSender": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
//	  "claimId": "0x...",
//	  "layoutVersion": 2,
//	  "calldata": "0x..."
//	}
//
// # Basic Usage
//
//	fetcher := certs.NewFetcher(certs.DefaultOptions())
//	srv := server.NewServer(server.Options{Certs: fetcher})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.ListenAndServe(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Token Middleware
//
// TokenMiddleware can guard any handler that needs the raw identity token:
//
//	middleware := server.NewTokenMiddleware()
//	http.Handle("/api/", middleware.Wrap(handler))
//
//	// inside handler
//	token, ok := server.GetTokenFromContext(r.Context())
//
// Missing tokens are rejected with 401 unless SetOptional(true) is called.
// SetErrorHandler replaces the rejection response.
//
// # Errors
//
// Every failure is a JSON ErrorResponse. Engine rejections carry their kind
// and map to 400 (malformed input), 401 (trust failures) or 422 (claims that
// cannot be committed). Certificate fetch failures answer 502.
package server
