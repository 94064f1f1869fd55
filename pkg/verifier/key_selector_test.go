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

package verifier

import (
	"errors"
	"testing"

	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeySelector_SelectKey_ByKeyID(t *testing.T) {
	keys := testRSAKeys(t)
	set := setOf(
		jwkFor("first", &keys[0].PublicKey),
		jwkFor("abc", &keys[1].PublicKey),
	)

	selector := NewDefaultKeySelector(FallbackNone)

	calls := 0
	selection, err := selector.SelectKey(token.Header{Alg: RS256, Kid: "abc", HasKid: true}, set, verifyWith(&keys[1].PublicKey, &calls))

	require.NoError(t, err)
	assert.Equal(t, "abc", selection.Key.KeyID())
	assert.Equal(t, 1, selection.Index)
	assert.False(t, selection.Fallback)
	assert.True(t, keys[1].PublicKey.Equal(selection.PublicKey))
	assert.Equal(t, 1, calls)
}

func TestDefaultKeySelector_SelectKey_DuplicateKeyIDUsesFirst(t *testing.T) {
	keys := testRSAKeys(t)
	set := setOf(
		jwkFor("dup", &keys[0].PublicKey),
		jwkFor("dup", &keys[1].PublicKey),
	)

	calls := 0
	_, err := NewDefaultKeySelector(FallbackAlways).SelectKey(token.Header{Kid: "dup", HasKid: true}, set, verifyWith(&keys[1].PublicKey, &calls))

	// the first "dup" is selected, fails, and that is terminal even with FallbackAlways
	require.Error(t, err)
	assert.True(t, errors.Is(err, reject.SignatureInvalid))
	assert.Equal(t, 1, calls)
}

func TestDefaultKeySelector_SelectKey_MatchedKeyFailsIsSignatureInvalid(t *testing.T) {
	keys := testRSAKeys(t)
	set := setOf(jwkFor("abc", &keys[0].PublicKey), jwkFor("other", &keys[1].PublicKey))

	for _, policy := range []FallbackPolicy{FallbackNone, FallbackMissingKeyID, FallbackAlways} {
		t.Run(policy.String(), func(t *testing.T) {
			calls := 0
			_, err := NewDefaultKeySelector(policy).SelectKey(token.Header{Kid: "abc", HasKid: true}, set, verifyWith(&keys[1].PublicKey, &calls))

			require.Error(t, err)
			assert.True(t, errors.Is(err, reject.SignatureInvalid))
			assert.False(t, errors.Is(err, reject.KeyNotFound))
			assert.Equal(t, 1, calls, "no retry against other keys")
		})
	}
}

func TestDefaultKeySelector_SelectKey_UnknownKeyID(t *testing.T) {
	keys := testRSAKeys(t)
	set := setOf(jwkFor("abc", &keys[0].PublicKey))
	header := token.Header{Kid: "ABC", HasKid: true}

	for _, policy := range []FallbackPolicy{FallbackNone, FallbackMissingKeyID} {
		t.Run(policy.String(), func(t *testing.T) {
			calls := 0
			_, err := NewDefaultKeySelector(policy).SelectKey(header, set, verifyWith(&keys[0].PublicKey, &calls))

			require.Error(t, err)
			assert.True(t, errors.Is(err, reject.KeyNotFound))
			assert.Equal(t, 0, calls)
		})
	}
}

func TestDefaultKeySelector_SelectKey_UnknownKeyID_FallbackAlways(t *testing.T) {
	keys := testRSAKeys(t)
	set := setOf(jwkFor("abc", &keys[0].PublicKey), jwkFor("def", &keys[1].PublicKey))

	calls := 0
	selection, err := NewDefaultKeySelector(FallbackAlways).SelectKey(token.Header{Kid: "rotated", HasKid: true}, set, verifyWith(&keys[1].PublicKey, &calls))

	require.NoError(t, err)
	assert.Equal(t, "def", selection.Key.KeyID())
	assert.True(t, selection.Fallback)
	assert.Equal(t, 2, calls)
}

func TestDefaultKeySelector_SelectKey_MissingKeyID(t *testing.T) {
	keys := testRSAKeys(t)
	set := setOf(
		jwkFor("k0", &keys[0].PublicKey),
		jwkFor("k1", &keys[1].PublicKey),
		jwkFor("k2", &keys[2].PublicKey),
	)
	header := token.Header{Alg: RS256}

	t.Run("fallback disabled", func(t *testing.T) {
		calls := 0
		_, err := NewDefaultKeySelector(FallbackNone).SelectKey(header, set, verifyWith(&keys[2].PublicKey, &calls))
		require.Error(t, err)
		assert.True(t, errors.Is(err, reject.KeyNotFound))
		assert.Equal(t, 0, calls)
	})

	t.Run("fallback succeeds in set order", func(t *testing.T) {
		calls := 0
		selection, err := NewDefaultKeySelector(FallbackMissingKeyID).SelectKey(header, set, verifyWith(&keys[2].PublicKey, &calls))
		require.NoError(t, err)
		assert.Equal(t, "k2", selection.Key.KeyID())
		assert.Equal(t, 2, selection.Index)
		assert.True(t, selection.Fallback)
		assert.Equal(t, 3, calls)
	})

	t.Run("fallback exhausted", func(t *testing.T) {
		other := &keys[0].PublicKey
		calls := 0
		_, err := NewDefaultKeySelector(FallbackMissingKeyID).SelectKey(header, setOf(jwkFor("k1", &keys[1].PublicKey)), verifyWith(other, &calls))
		require.Error(t, err)
		assert.True(t, errors.Is(err, reject.KeyNotFound))
		assert.False(t, errors.Is(err, reject.SignatureInvalid))
		assert.Equal(t, 1, calls)
	})
}

func TestDefaultKeySelector_SelectKey_FallbackSkipsUnusableKeys(t *testing.T) {
	keys := testRSAKeys(t)

	ec := jwk.Key{Base: jwk.Base{Kty: "EC", Alg: "ES256"}, Ext: jwk.Extension{Kid: "ec"}}
	broken := jwkFor("broken", &keys[1].PublicKey)
	broken.N = "not*base64"
	enc := jwkFor("enc", &keys[1].PublicKey)
	enc.Use = "enc"

	set := setOf(ec, broken, enc, jwkFor("good", &keys[1].PublicKey))

	calls := 0
	selection, err := NewDefaultKeySelector(FallbackMissingKeyID).SelectKey(token.Header{}, set, verifyWith(&keys[1].PublicKey, &calls))

	require.NoError(t, err)
	assert.Equal(t, "good", selection.Key.KeyID())
	assert.Equal(t, 3, selection.Index)
	assert.Equal(t, 1, calls)
}

func TestDefaultKeySelector_SelectKey_MatchedKeyUnusable(t *testing.T) {
	keys := testRSAKeys(t)

	t.Run("not viable", func(t *testing.T) {
		k := jwkFor("abc", &keys[0].PublicKey)
		k.Alg = "RS512"
		calls := 0
		_, err := NewDefaultKeySelector(FallbackAlways).SelectKey(token.Header{Kid: "abc", HasKid: true}, setOf(k), verifyWith(&keys[0].PublicKey, &calls))
		require.Error(t, err)
		assert.True(t, errors.Is(err, reject.KeyNotFound))
		assert.Equal(t, 0, calls)
	})

	t.Run("bad modulus", func(t *testing.T) {
		k := jwkFor("abc", &keys[0].PublicKey)
		k.N = ""
		calls := 0
		_, err := NewDefaultKeySelector(FallbackNone).SelectKey(token.Header{Kid: "abc", HasKid: true}, setOf(k), verifyWith(&keys[0].PublicKey, &calls))
		require.Error(t, err)
		assert.True(t, errors.Is(err, reject.MalformedKeySet))
		assert.Equal(t, 0, calls)
	})
}

func TestDefaultKeySelector_SelectKey_EmptySet(t *testing.T) {
	calls := 0
	for _, set := range []*jwk.Set{nil, setOf()} {
		_, err := NewDefaultKeySelector(FallbackAlways).SelectKey(token.Header{}, set, verifyWith(nil, &calls))
		require.Error(t, err)
		assert.True(t, errors.Is(err, reject.KeyNotFound))
	}
	assert.Equal(t, 0, calls)
}

func TestDefaultKeySelector_SelectKey_NilVerify(t *testing.T) {
	keys := testRSAKeys(t)
	_, err := NewDefaultKeySelector(FallbackNone).SelectKey(token.Header{Kid: "abc", HasKid: true}, setOf(jwkFor("abc", &keys[0].PublicKey)), nil)
	require.Error(t, err)
	assert.False(t, reject.IsRejection(err))
}

func TestFallbackPolicy_String(t *testing.T) {
	assert.Equal(t, "none", FallbackNone.String())
	assert.Equal(t, "missing-kid", FallbackMissingKeyID.String())
	assert.Equal(t, "always", FallbackAlways.String())
	assert.Equal(t, "FallbackPolicy(9)", FallbackPolicy(9).String())
}
