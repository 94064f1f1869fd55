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

// Package provider is the closed set of identity providers the engine trusts.
//
// A provider is selected by an integer code and supplies every trust
// parameter the validation pipeline needs: accepted issuers, audience, claim
// names, the kid fallback policy and where verification keys come from.
// Adding a provider means adding a Kind constant and a case in Kind.Provider;
// the shared pipeline does not change.
//
// Lookup answers for the Production registry, which holds Google only. The
// test provider verifies against a key whose private half is public, so it is
// reachable through Development alone. A settlement contract must accept only
// the address-claim-keys layout (v2) and check the committed key set against
// the provider's published keys; the v1 layout is produced by the test
// provider only.
package provider

import (
	_ "embed"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/claims"
	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/verifier"
)

// Kind identifies a provider variant
type Kind uint8

const (
	Google Kind = 0
	Test   Kind = 1
)

// KeySource tells where a provider's verification keys come from
type KeySource int

const (
	// KeySourceEmbedded uses the key set compiled into the binary.
	// Caller supplied keys are refused.
	KeySourceEmbedded KeySource = iota

	// KeySourceSupplied requires the caller to supply the key set, which is
	// then committed with the outputs.
	KeySourceSupplied
)

func (s KeySource) String() string {
	switch s {
	case KeySourceEmbedded:
		return "embedded"
	case KeySourceSupplied:
		return "supplied"
	default:
		return fmt.Sprintf("KeySource(%d)", int(s))
	}
}

// GoogleClientID is the OAuth client id Google tokens must be issued to.
// Set at build time with -ldflags "-X github.com/sage-x-project/oidcpay-go/pkg/provider.GoogleClientID=..."
var GoogleClientID = "oidcpay.apps.googleusercontent.com"

const (
	TestIssuer   = "https://issuer.oidcpay.test"
	TestAudience = "oidcpay-test"
)

var (
	//go:embed certs/google.json
	googleCerts []byte

	//go:embed certs/test.json
	testCerts []byte

	testKeySet = jwk.MustParse(testCerts)
)

// KindFromSelector maps a 256-bit selector onto the closed provider set
func KindFromSelector(selector *uint256.Int) (Kind, error) {
	if selector == nil {
		return 0, reject.New(reject.UnsupportedProvider, "provider selector missing")
	}
	if !selector.IsUint64() {
		return 0, reject.Newf(reject.UnsupportedProvider, "provider %s is not supported", selector.Dec())
	}
	switch v := selector.Uint64(); v {
	case uint64(Google):
		return Google, nil
	case uint64(Test):
		return Test, nil
	default:
		return 0, reject.Newf(reject.UnsupportedProvider, "provider %d is not supported", v)
	}
}

// Kinds lists every provider variant in selector order, enabled or not
func Kinds() []Kind {
	return []Kind{Google, Test}
}

func (k Kind) String() string {
	switch k {
	case Google:
		return "google"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Provider returns the trust configuration for k
func (k Kind) Provider() (*Provider, error) {
	switch k {
	case Google:
		return &Provider{
			Kind: Google,
			Name: "Google",
			Claims: claims.Policy{
				Issuers:      []string{"https://accounts.google.com", "accounts.google.com"},
				Audience:     GoogleClientID,
				SubjectClaim: "email",
				AddressClaim: "nonce",
			},
			Fallback:  verifier.FallbackMissingKeyID,
			KeySource: KeySourceSupplied,
		}, nil
	case Test:
		return &Provider{
			Kind: Test,
			Name: "Test",
			Claims: claims.Policy{
				Issuers:      []string{TestIssuer},
				Audience:     TestAudience,
				SubjectClaim: "sub",
				AddressClaim: "nonce",
			},
			Fallback:  verifier.FallbackMissingKeyID,
			KeySource: KeySourceEmbedded,
			Embedded:  testKeySet,
		}, nil
	default:
		return nil, reject.Newf(reject.UnsupportedProvider, "provider %s is not supported", k)
	}
}

// Registry is the subset of providers a build accepts. The test provider's
// signing key is public, so only Development admits it.
type Registry struct {
	name  string
	kinds []Kind
}

var (
	// Production accepts providers whose keys are held by the identity provider
	Production = Registry{name: "production", kinds: []Kind{Google}}

	// Development additionally accepts the test provider
	Development = Registry{name: "development", kinds: []Kind{Google, Test}}
)

// Name returns the registry name
func (r Registry) Name() string {
	return r.name
}

// Kinds lists the accepted providers in selector order
func (r Registry) Kinds() []Kind {
	return append([]Kind(nil), r.kinds...)
}

// Allows reports whether k is accepted
func (r Registry) Allows(k Kind) bool {
	for _, kind := range r.kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Lookup resolves a selector to its provider
func (r Registry) Lookup(selector *uint256.Int) (*Provider, error) {
	kind, err := KindFromSelector(selector)
	if err != nil {
		return nil, err
	}
	if !r.Allows(kind) {
		return nil, reject.Newf(reject.UnsupportedProvider, "provider %s is not enabled in %s builds", kind, r.name)
	}
	return kind.Provider()
}

// Lookup resolves a selector against Production
func Lookup(selector *uint256.Int) (*Provider, error) {
	return Production.Lookup(selector)
}

// GoogleSnapshot returns the Google certificates captured at build time.
// Validation never uses them; they seed tooling and tests.
func GoogleSnapshot() []byte {
	return append([]byte(nil), googleCerts...)
}

// Provider is the trust configuration of one identity provider
type Provider struct {
	Kind      Kind
	Name      string
	Claims    claims.Policy
	Fallback  verifier.FallbackPolicy
	KeySource KeySource

	// Embedded is the compiled-in key set for KeySourceEmbedded
	Embedded *jwk.Set
}

// OutputLayout returns the public values layout committed for this provider
func (p *Provider) OutputLayout() protocol.Layout {
	if p.KeySource == KeySourceSupplied {
		return protocol.LayoutAddressClaimKeys
	}
	return protocol.LayoutAddressClaim
}

// KeySet resolves the key set to verify against
func (p *Provider) KeySet(supplied []byte) (*jwk.Set, error) {
	switch p.KeySource {
	case KeySourceEmbedded:
		if len(supplied) > 0 {
			return nil, reject.Newf(reject.KeySetNotAllowed, "%s uses its embedded key set", p.Name)
		}
		if p.Embedded == nil {
			return nil, reject.Newf(reject.KeyNotFound, "%s has no embedded key set", p.Name)
		}
		return p.Embedded, nil
	case KeySourceSupplied:
		if len(supplied) == 0 {
			return nil, reject.Newf(reject.KeySetRequired, "%s requires a caller supplied key set", p.Name)
		}
		return jwk.Parse(supplied)
	default:
		return nil, fmt.Errorf("unknown key source %s", p.KeySource)
	}
}
