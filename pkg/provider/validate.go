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

package provider

import (
	"errors"

	"github.com/sage-x-project/oidcpay-go/pkg/claims"
	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
	"github.com/sage-x-project/oidcpay-go/pkg/verifier"
)

// Stage is a checkpoint reached by the validation pipeline
type Stage int

const (
	StageDecoded Stage = iota + 1
	StageKeySelected
	StageSignatureVerified
	StageClaimsValidated
)

func (s Stage) String() string {
	switch s {
	case StageDecoded:
		return "Decoded"
	case StageKeySelected:
		return "KeySelected"
	case StageSignatureVerified:
		return "SignatureVerified"
	case StageClaimsValidated:
		return "ClaimsValidated"
	default:
		return "Unknown"
	}
}

// Observer is told about every stage the pipeline completes
type Observer func(Stage)

// Validation is everything a successful pipeline run produces
type Validation struct {
	Result    claims.Result
	KeySet    *jwk.Set
	Selection verifier.Selection
}

// Validate runs the pipeline with an optional caller supplied key set
func (p *Provider) Validate(jwt string, supplied []byte) (claims.Result, *jwk.Set, error) {
	v, err := p.ValidateObserved(jwt, supplied, nil)
	if err != nil {
		return claims.Result{}, nil, err
	}
	return v.Result, v.KeySet, nil
}

// ValidateObserved runs key source resolution, token decoding, the algorithm
// allow-list, key selection, signature verification and claim validation in
// that order. The first failure ends the run.
func (p *Provider) ValidateObserved(jwt string, supplied []byte, observe Observer) (Validation, error) {
	if observe == nil {
		observe = func(Stage) {}
	}

	set, err := p.KeySet(supplied)
	if err != nil {
		return Validation{}, err
	}

	decoded, err := token.Decode(jwt)
	if err != nil {
		return Validation{}, err
	}
	observe(StageDecoded)

	tv := verifier.NewDefaultTokenVerifier(verifier.NewDefaultKeySelector(p.Fallback), verifier.NewRS256Verifier())
	selection, err := tv.Verify(decoded, set)
	if err != nil {
		// a kid match that fails to verify still selected a key
		if errors.Is(err, reject.SignatureInvalid) {
			observe(StageKeySelected)
		}
		return Validation{}, err
	}
	observe(StageKeySelected)
	observe(StageSignatureVerified)

	result, err := claims.Validate(decoded.Payload, p.Claims)
	if err != nil {
		return Validation{}, err
	}
	observe(StageClaimsValidated)

	return Validation{
		Result:    result,
		KeySet:    set,
		Selection: selection,
	}, nil
}
