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
	"encoding/hex"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/claims"
	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/output"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/signer"
	"github.com/sage-x-project/oidcpay-go/pkg/signer/signertest"
	"github.com/sage-x-project/oidcpay-go/pkg/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func testClaims() map[string]any {
	return map[string]any{
		"iss":   TestIssuer,
		"aud":   TestAudience,
		"sub":   "alice",
		"nonce": testAddress,
	}
}

func googleClaims() map[string]any {
	return map[string]any{
		"iss":   "https://accounts.google.com",
		"aud":   GoogleClientID,
		"sub":   "1234567890",
		"email": "alice@example.com",
		"nonce": testAddress,
	}
}

func issueTest(t *testing.T, claims map[string]any, opts *signer.SigningOptions) string {
	issuer, err := signertest.Issuer()
	require.NoError(t, err)
	jwt, err := issuer.SignWithOptions(claims, opts)
	require.NoError(t, err)
	return jwt
}

func googleSigner(t *testing.T, kid string) (*signer.RS256Signer, []byte) {
	s, err := signer.GenerateRS256Signer(kid)
	require.NoError(t, err)
	jwks, err := s.PublicJWKS()
	require.NoError(t, err)
	return s, jwks
}

func mustProvider(t *testing.T, kind Kind) *Provider {
	p, err := kind.Provider()
	require.NoError(t, err)
	return p
}

func TestKindFromSelector(t *testing.T) {
	kind, err := KindFromSelector(uint256.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, Google, kind)

	kind, err = KindFromSelector(uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, Test, kind)

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	for _, selector := range []*uint256.Int{nil, uint256.NewInt(2), uint256.NewInt(255), huge, new(uint256.Int).SetAllOne()} {
		_, err := KindFromSelector(selector)
		assert.True(t, errors.Is(err, reject.UnsupportedProvider), "selector %v", selector)
	}

	// 2^64 must not wrap around to Google
	_, err = Lookup(huge)
	assert.True(t, errors.Is(err, reject.UnsupportedProvider))
}

func TestRegistry_Lookup(t *testing.T) {
	google := uint256.NewInt(uint64(Google))
	test := uint256.NewInt(uint64(Test))

	p, err := Production.Lookup(google)
	require.NoError(t, err)
	assert.Equal(t, Google, p.Kind)

	// the test key is public, so production refuses the provider outright
	_, err = Production.Lookup(test)
	assert.True(t, errors.Is(err, reject.UnsupportedProvider))
	assert.ErrorContains(t, err, "production")
	_, err = Lookup(test)
	assert.True(t, errors.Is(err, reject.UnsupportedProvider))

	p, err = Development.Lookup(test)
	require.NoError(t, err)
	assert.Equal(t, Test, p.Kind)

	_, err = Development.Lookup(uint256.NewInt(2))
	assert.True(t, errors.Is(err, reject.UnsupportedProvider))

	assert.Equal(t, []Kind{Google}, Production.Kinds())
	assert.Equal(t, []Kind{Google, Test}, Development.Kinds())
	assert.False(t, Production.Allows(Test))
	assert.Equal(t, "development", Development.Name())

	// callers cannot widen a registry through Kinds
	kinds := Production.Kinds()
	kinds[0] = Test
	assert.False(t, Production.Allows(Test))
}

func TestKind_Provider(t *testing.T) {
	for _, kind := range Kinds() {
		p := mustProvider(t, kind)
		assert.Equal(t, kind, p.Kind)
		assert.NotEmpty(t, p.Claims.Issuers)
		assert.NotEmpty(t, p.Claims.Audience)
	}

	_, err := Kind(9).Provider()
	assert.True(t, errors.Is(err, reject.UnsupportedProvider))
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestProvider_OutputLayout(t *testing.T) {
	assert.Equal(t, protocol.LayoutAddressClaimKeys, mustProvider(t, Google).OutputLayout())
	assert.Equal(t, protocol.LayoutAddressClaim, mustProvider(t, Test).OutputLayout())
}

func TestGoogleSnapshot(t *testing.T) {
	set, err := jwk.Parse(GoogleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	// callers get a copy
	snapshot := GoogleSnapshot()
	snapshot[0] = 'X'
	assert.Equal(t, byte('{'), GoogleSnapshot()[0])
}

func TestTestProvider_EmbeddedKeyMatchesIssuer(t *testing.T) {
	issuer, err := signertest.Issuer()
	require.NoError(t, err)

	key, _, ok := testKeySet.FindByKeyID(signertest.KeyID)
	require.True(t, ok)
	pub, err := key.RSAPublicKey()
	require.NoError(t, err)
	assert.True(t, pub.Equal(issuer.PublicKey()))
}

func TestValidate_TestProvider(t *testing.T) {
	p := mustProvider(t, Test)

	result, set, err := p.Validate(issueTest(t, testClaims(), nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Subject)
	assert.Equal(t, testAddress, result.SignerAddress)
	assert.Same(t, testKeySet, set)

	// no kid falls back to the embedded key
	_, _, err = p.Validate(issueTest(t, testClaims(), &signer.SigningOptions{OmitKeyID: true}), nil)
	assert.NoError(t, err)
}

func TestValidate_TestProviderRefusesSuppliedKeys(t *testing.T) {
	p := mustProvider(t, Test)
	_, jwks := googleSigner(t, signertest.KeyID)

	_, _, err := p.Validate(issueTest(t, testClaims(), nil), jwks)
	assert.True(t, errors.Is(err, reject.KeySetNotAllowed))
}

func TestValidate_GoogleProvider(t *testing.T) {
	p := mustProvider(t, Google)
	s, jwks := googleSigner(t, "google-kid")

	jwt, err := s.Sign(googleClaims())
	require.NoError(t, err)

	result, set, err := p.Validate(jwt, jwks)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.Subject)
	assert.Equal(t, 1, set.Len())

	_, _, err = p.Validate(jwt, nil)
	assert.True(t, errors.Is(err, reject.KeySetRequired))

	_, _, err = p.Validate(jwt, []byte(`{"keys":`))
	assert.True(t, errors.Is(err, reject.MalformedKeySet))

	// the real Google snapshot does not hold this key
	_, _, err = p.Validate(jwt, GoogleSnapshot())
	assert.True(t, errors.Is(err, reject.KeyNotFound))
}

func TestValidate_PolicySwapChangesAcceptance(t *testing.T) {
	s, jwks := googleSigner(t, "k")
	jwt, err := s.Sign(testClaims())
	require.NoError(t, err)

	lenient := &Provider{
		Name:      "lenient",
		Claims:    mustProvider(t, Test).Claims,
		Fallback:  verifier.FallbackMissingKeyID,
		KeySource: KeySourceSupplied,
	}
	_, _, err = lenient.Validate(jwt, jwks)
	require.NoError(t, err)

	// identical signature validity, Google's trust policy
	strict := *lenient
	strict.Claims = mustProvider(t, Google).Claims
	_, _, err = strict.Validate(jwt, jwks)
	assert.True(t, errors.Is(err, reject.IssuerMismatch))
}

func TestValidate_Scenario(t *testing.T) {
	s, jwks := googleSigner(t, "abc")
	subject := "0xUserAddress"

	p := &Provider{
		Name: "scenario",
		Claims: claims.Policy{
			Issuers:      []string{"https://trusted.example"},
			Audience:     "trusted-aud",
			SubjectClaim: "sub",
			AddressClaim: "sub",
		},
		Fallback:  verifier.FallbackNone,
		KeySource: KeySourceSupplied,
	}

	jwt, err := s.SignWithOptions(map[string]any{
		"iss": "https://trusted.example",
		"aud": "trusted-aud",
		"sub": subject,
	}, &signer.SigningOptions{NoTimestamps: true})
	require.NoError(t, err)

	result, _, err := p.Validate(jwt, jwks)
	require.NoError(t, err)
	assert.Equal(t, subject, result.Subject)
	claimID := output.ClaimID(result.Subject)
	assert.Equal(t, "21359aaa77caeae5cef9cd2f96ffe2fc37a278b7d3082d241408144f167ba9cc", hex.EncodeToString(claimID[:]))
}

func TestValidate_FailureOrder(t *testing.T) {
	p := mustProvider(t, Test)

	tests := []struct {
		name string
		jwt  string
		kind reject.Kind
	}{
		{"malformed token", "not-a-token", reject.MalformedToken},
		{"unknown kid", issueTest(t, testClaims(), &signer.SigningOptions{KeyID: "rotated-away"}), reject.KeyNotFound},
		{"wrong issuer", issueTest(t, withClaim(testClaims(), "iss", "https://evil.example"), nil), reject.IssuerMismatch},
		{"wrong audience", issueTest(t, withClaim(testClaims(), "aud", "someone-else"), nil), reject.AudienceMismatch},
		{"missing subject", issueTest(t, withClaim(testClaims(), "sub", ""), nil), reject.MissingSubjectClaim},
		{"missing address", issueTest(t, withClaim(testClaims(), "nonce", nil), nil), reject.MalformedAddressClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Validate(tt.jwt, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "want %s got %v", tt.kind, err)
		})
	}
}

func TestValidateObserved_Stages(t *testing.T) {
	p := mustProvider(t, Test)

	var stages []Stage
	record := func(s Stage) { stages = append(stages, s) }

	_, err := p.ValidateObserved(issueTest(t, testClaims(), nil), nil, record)
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageDecoded, StageKeySelected, StageSignatureVerified, StageClaimsValidated}, stages)

	stages = nil
	bad := issueTest(t, withClaim(testClaims(), "aud", "x"), nil)
	_, err = p.ValidateObserved(bad, nil, record)
	require.Error(t, err)
	assert.Equal(t, []Stage{StageDecoded, StageKeySelected, StageSignatureVerified}, stages)

	stages = nil
	_, err = p.ValidateObserved("a.b", nil, record)
	require.Error(t, err)
	assert.Empty(t, stages)
}

// withClaim sets name to value, deleting it when value is nil
func withClaim(c map[string]any, name string, value any) map[string]any {
	if value == nil {
		delete(c, name)
		return c
	}
	c[name] = value
	return c
}
