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

package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

// RS256Signer implements TokenSigner with an RSA private key
type RS256Signer struct {
	kid string
	key *rsa.PrivateKey
}

// NewRS256Signer creates a new RS256Signer
func NewRS256Signer(kid string, key *rsa.PrivateKey) (*RS256Signer, error) {
	if key == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	if key.N.BitLen() < 2048 {
		return nil, fmt.Errorf("RSA key must be at least 2048 bits, got %d", key.N.BitLen())
	}
	return &RS256Signer{
		kid: kid,
		key: key,
	}, nil
}

// GenerateRS256Signer creates a signer around a fresh 2048 bit key
func GenerateRS256Signer(kid string) (*RS256Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return NewRS256Signer(kid, key)
}

// LoadRS256Signer reads a PEM encoded RSA private key (PKCS#1 or PKCS#8)
func LoadRS256Signer(kid, path string) (*RS256Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return ParseRS256Signer(kid, data)
}

// ParseRS256Signer builds a signer from PEM encoded RSA private key bytes
func ParseRS256Signer(kid string, pemData []byte) (*RS256Signer, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key: %w", err)
	}
	return NewRS256Signer(kid, key)
}

// KeyID returns the signer's kid
func (s *RS256Signer) KeyID() string {
	return s.kid
}

// PublicKey returns the verification key
func (s *RS256Signer) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// Sign signs claims with the default options
func (s *RS256Signer) Sign(claims map[string]any) (string, error) {
	return s.SignWithOptions(claims, nil)
}

// SignWithOptions signs claims with custom options
func (s *RS256Signer) SignWithOptions(claims map[string]any, opts *SigningOptions) (string, error) {
	if claims == nil {
		return "", fmt.Errorf("claims cannot be nil")
	}
	if opts == nil {
		opts = &SigningOptions{}
	}

	mapClaims := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mapClaims[k] = v
	}

	if !opts.NoTimestamps {
		issuedAt := opts.IssuedAt
		if issuedAt == 0 {
			issuedAt = time.Now().Unix()
		}
		if _, ok := mapClaims["iat"]; !ok {
			mapClaims["iat"] = issuedAt
		}
		if _, ok := mapClaims["exp"]; !ok && opts.ExpiresIn > 0 {
			mapClaims["exp"] = issuedAt + opts.ExpiresIn
		}
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, mapClaims)
	kid := s.kid
	if opts.KeyID != "" {
		kid = opts.KeyID
	}
	if !opts.OmitKeyID && kid != "" {
		tok.Header["kid"] = kid
	}

	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// PublicJWKS exports the verification key as a single entry JWKS
func (s *RS256Signer) PublicJWKS() ([]byte, error) {
	set := jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{{
			Key:       &s.key.PublicKey,
			KeyID:     s.kid,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		}},
	}
	data, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JWKS: %w", err)
	}
	return data, nil
}
