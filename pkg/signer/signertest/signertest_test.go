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

package signertest

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer(t *testing.T) {
	s, err := Issuer()
	require.NoError(t, err)
	assert.Equal(t, KeyID, s.KeyID())
	assert.Equal(t, 2048, s.PublicKey().N.BitLen())

	again, err := Issuer()
	require.NoError(t, err)
	assert.Same(t, s, again)

	compact, err := s.Sign(map[string]any{"sub": "alice"})
	require.NoError(t, err)
	tok, err := jwt.Parse(compact, func(*jwt.Token) (any, error) { return s.PublicKey(), nil },
		jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	assert.Equal(t, KeyID, tok.Header["kid"])
}

func TestKeyPEM(t *testing.T) {
	pem := KeyPEM()
	assert.Contains(t, string(pem), "PRIVATE KEY")

	pem[0] = 'X'
	assert.NotEqual(t, byte('X'), KeyPEM()[0])
}
