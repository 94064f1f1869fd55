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

// Package token decodes compact-serialized JSON Web Tokens without verifying them.
//
// Decode splits a token into its three segments, base64url-decodes them and
// parses the header and payload JSON. The signing input handed to signature
// verification is the original "header.payload" text exactly as transmitted;
// it is never rebuilt from the parsed JSON, since any re-encoding could change
// the byte layout and invalidate the signature.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// Header holds the JOSE header members the engine relies on.
type Header struct {
	// Alg is the declared signature algorithm
	Alg string

	// Kid is the key id, valid only when HasKid is true
	Kid string

	// HasKid reports whether the header carried a "kid" member
	HasKid bool
}

// Decoded is a split and parsed token. It is transient: nothing holds on to it
// past a single validation.
type Decoded struct {
	Header Header

	// Payload maps claim names to their JSON values
	Payload Claims

	// SigningInput is the header segment, a dot, and the payload segment as transmitted
	SigningInput []byte

	// Signature is the decoded signature segment
	Signature []byte
}

// Decode splits and decodes a compact JWT.
func Decode(jwt string) (*Decoded, error) {
	parts := strings.Split(jwt, ".")
	if len(parts) != 3 {
		return nil, reject.Newf(reject.MalformedToken, "expected 3 segments, got %d", len(parts))
	}
	headerB64, payloadB64, signatureB64 := parts[0], parts[1], parts[2]

	headerJSON, err := decodeSegment(headerB64)
	if err != nil {
		return nil, reject.Wrap(reject.MalformedToken, "failed to decode header", err)
	}
	payloadJSON, err := decodeSegment(payloadB64)
	if err != nil {
		return nil, reject.Wrap(reject.MalformedToken, "failed to decode payload", err)
	}
	// an empty signature segment is left for the algorithm allow-list to reject
	signature, err := base64.RawURLEncoding.Strict().DecodeString(signatureB64)
	if err != nil {
		return nil, reject.Wrap(reject.MalformedToken, "failed to decode signature", err)
	}

	header, err := parseHeader(headerJSON)
	if err != nil {
		return nil, err
	}

	payload, err := parseObject(payloadJSON)
	if err != nil {
		return nil, reject.Wrap(reject.MalformedToken, "failed to parse payload", err)
	}

	return &Decoded{
		Header:       header,
		Payload:      Claims(payload),
		SigningInput: []byte(headerB64 + "." + payloadB64),
		Signature:    signature,
	}, nil
}

func decodeSegment(segment string) ([]byte, error) {
	if segment == "" {
		return nil, fmt.Errorf("empty segment")
	}
	return base64.RawURLEncoding.Strict().DecodeString(segment)
}

func parseHeader(data []byte) (Header, error) {
	members, err := parseObject(data)
	if err != nil {
		return Header{}, reject.Wrap(reject.MalformedToken, "failed to parse header", err)
	}

	alg, ok := members["alg"].(string)
	if !ok {
		return Header{}, reject.New(reject.MalformedToken, "header \"alg\" is missing or not a string")
	}

	header := Header{Alg: alg}
	if raw, present := members["kid"]; present {
		kid, ok := raw.(string)
		if !ok {
			return Header{}, reject.New(reject.MalformedToken, "header \"kid\" is not a string")
		}
		header.Kid = kid
		header.HasKid = true
	}
	return header, nil
}

// parseObject decodes a single JSON object, keeping numbers as json.Number.
func parseObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("not a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return obj, nil
}
