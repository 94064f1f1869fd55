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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"sync"
	"testing"

	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
	"github.com/stretchr/testify/require"
)

var (
	keysOnce sync.Once
	rsaKeys  []*rsa.PrivateKey
)

// testRSAKeys returns three 2048-bit keys shared by every test in the package
func testRSAKeys(tb testing.TB) []*rsa.PrivateKey {
	keysOnce.Do(func() {
		for i := 0; i < 3; i++ {
			k, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				panic(err)
			}
			rsaKeys = append(rsaKeys, k)
		}
	})
	return rsaKeys
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// jwkFor publishes pub as an RS256 signing key with the given kid
func jwkFor(kid string, pub *rsa.PublicKey) jwk.Key {
	return jwk.Key{
		Base: jwk.Base{
			Kty: "RSA",
			Use: "sig",
			Alg: "RS256",
			N:   b64(pub.N.Bytes()),
			E:   b64(big.NewInt(int64(pub.E)).Bytes()),
		},
		Ext: jwk.Extension{Kid: kid},
	}
}

func setOf(keys ...jwk.Key) *jwk.Set {
	return &jwk.Set{Keys: keys}
}

// signCompact builds header.payload.signature with an RS256 signature from priv
func signCompact(tb testing.TB, priv *rsa.PrivateKey, header, payload string) string {
	signingInput := b64([]byte(header)) + "." + b64([]byte(payload))
	digest := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	require.NoError(tb, err)
	return signingInput + "." + b64(sig)
}

func decode(tb testing.TB, jwt string) *token.Decoded {
	decoded, err := token.Decode(jwt)
	require.NoError(tb, err)
	return decoded
}

// verifyWith returns a VerifyFunc accepting only target, counting every call
func verifyWith(target *rsa.PublicKey, calls *int) VerifyFunc {
	return func(pub *rsa.PublicKey) error {
		*calls++
		if pub.Equal(target) {
			return nil
		}
		return rsa.ErrVerification
	}
}
