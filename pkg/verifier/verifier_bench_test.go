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
	"fmt"
	"testing"
)

func BenchmarkSelectKeyByKeyID(b *testing.B) {
	keys := testRSAKeys(b)
	set := setOf(jwkFor("k0", &keys[0].PublicKey), jwkFor("k1", &keys[1].PublicKey), jwkFor("k2", &keys[2].PublicKey))
	decoded := decode(b, signCompact(b, keys[2], `{"alg":"RS256","kid":"k2"}`, testPayload))
	v := newTokenVerifier(FallbackNone)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Verify(decoded, set); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSelectKeyFallback(b *testing.B) {
	keys := testRSAKeys(b)
	for _, size := range []int{1, 2, 3} {
		b.Run(fmt.Sprintf("keys=%d", size), func(b *testing.B) {
			set := setOf()
			for i := 0; i < size; i++ {
				set.Keys = append(set.Keys, jwkFor(fmt.Sprintf("k%d", i), &keys[i].PublicKey))
			}
			// signed by the last key so every candidate is tried
			decoded := decode(b, signCompact(b, keys[size-1], `{"alg":"RS256"}`, testPayload))
			v := newTokenVerifier(FallbackMissingKeyID)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := v.Verify(decoded, set); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCheckAlgorithm(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = CheckAlgorithm("RS256")
	}
}
