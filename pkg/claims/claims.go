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

// Package claims checks the issuer, audience and subject claims of a verified
// token payload against a provider's trust policy.
//
// Expiry is not checked. The engine has no trusted clock, so exp and iat are
// left to whoever relies on the committed output.
package claims

import (
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
)

// Policy is the set of claim expectations for one identity provider
type Policy struct {
	// Issuers lists the accepted iss values, compared exactly
	Issuers []string

	// Audience must equal aud, or be one of its elements when aud is an array
	Audience string

	// SubjectClaim names the claim hashed into the claim id
	SubjectClaim string

	// AddressClaim names the claim carrying the destination address
	AddressClaim string
}

// Result is the outcome of a successful validation
type Result struct {
	Subject       string
	SignerAddress string
}

// Validate checks payload against policy in a fixed order: issuer, audience,
// subject, address. The first failing check determines the rejection kind.
func Validate(payload token.Claims, policy Policy) (Result, error) {
	iss, ok := payload.String("iss")
	if !ok {
		return Result{}, reject.New(reject.IssuerMismatch, "iss claim missing or not a string")
	}
	if !policy.trustsIssuer(iss) {
		return Result{}, reject.Newf(reject.IssuerMismatch, "issuer %q is not trusted", iss)
	}

	aud, ok := payload.Audience()
	if !ok {
		return Result{}, reject.New(reject.AudienceMismatch, "aud claim missing or malformed")
	}
	if !contains(aud, policy.Audience) {
		return Result{}, reject.Newf(reject.AudienceMismatch, "audience %q not granted", policy.Audience)
	}

	subject, ok := payload.String(policy.SubjectClaim)
	if !ok || subject == "" {
		return Result{}, reject.Newf(reject.MissingSubjectClaim, "claim %q missing or empty", policy.SubjectClaim)
	}

	address, ok := payload.String(policy.AddressClaim)
	if !ok {
		return Result{}, reject.Newf(reject.MalformedAddressClaim, "claim %q missing or not a string", policy.AddressClaim)
	}

	return Result{
		Subject:       subject,
		SignerAddress: address,
	}, nil
}

func (p Policy) trustsIssuer(iss string) bool {
	return contains(p.Issuers, iss)
}

func contains(values []string, want string) bool {
	// an unset policy value never matches
	if want == "" {
		return false
	}
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
